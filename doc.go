// Package authgate implements token-based authentication and the account
// lifecycle around it: password and OAuth login converging on one JWT
// issuance path, a per-request bearer-token authenticator, email
// verification, and password resets driven by one-shot tokens.
package authgate
