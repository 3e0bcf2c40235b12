package realtime

import "errors"

// Classification of rejected client actions. Handlers push a human-readable
// message to the initiating connection and return one of these.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrNotFound         = errors.New("target not found")
	ErrValidation       = errors.New("invalid payload")
)
