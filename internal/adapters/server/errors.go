package server

import "errors"

// Sentinel kinds for server errors.
var (
	ErrAlreadyStarted = errors.New("server already started")
	ErrNotStarted     = errors.New("server not started")
)
