package social

import "github.com/goliatone/go-errors"

const (
	TextCodeMissingIdentity = "social_missing_identity"
	TextCodeProvisionFailed = "social_provision_failed"
)

// ErrMissingIdentity is returned when provider attributes carry neither an
// email nor a login handle to derive one from.
var ErrMissingIdentity = errors.New("provider supplied no usable identity", errors.CategoryAuth).
	WithTextCode(TextCodeMissingIdentity).
	WithCode(errors.CodeUnauthorized)

// ErrProvisionFailed is returned when the account for an external identity
// could not be resolved or created.
var ErrProvisionFailed = errors.New("failed to provision external account", errors.CategoryInternal).
	WithTextCode(TextCodeProvisionFailed).
	WithCode(errors.CodeInternal)
