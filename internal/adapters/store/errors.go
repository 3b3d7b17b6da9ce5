package store

import "errors"

// Sentinel kinds for store errors.
var (
	ErrLobbyFull   = errors.New("both player slots are occupied")
	ErrUnknownRole = errors.New("unknown player role")
)
