package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// remote transmission errors: ErrorRejected marks a server-side validation
	// rejection, ErrorUnavailable a transient network/server failure. Both keep
	// the entity retry-eligible; the distinction is recorded in sync_error.
	ErrorRejected    = errors.New("rejected by server")
	ErrorUnavailable = errors.New("server unavailable")

	// service specific errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorNoSession    = errors.New("no active session")
	ErrInvalidToken   = errors.New("invalid token")

	// media errors
	ErrorMediaMissing = errors.New("media file missing")
)
