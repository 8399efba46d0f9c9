package core

import "github.com/cockroachdb/errors"

// Error kinds. Components mark the errors they return with one of these so
// the HTTP layer can pick a status without inspecting messages. Only the
// handlers translate kinds into status codes.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrUpstream       = errors.New("upstream service error")
	ErrMedia          = errors.New("media processing error")
)
