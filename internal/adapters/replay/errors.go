package replay

import "errors"

// ErrInvalidScript is wrapped by every script validation failure.
var ErrInvalidScript = errors.New("invalid replay script")
