package wire

import "errors"

// Sentinel kinds for wire errors.
var (
	ErrDecode          = errors.New("decode pose frame")
	ErrPayloadTooLarge = errors.New("payload exceeds frame limit")
)
