package gate

import "errors"

// Sentinel errors returned by Decide. Unauthorized means no identity was
// presented at all; Forbidden means an identity was presented but the rules
// deny the action.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
