package sender

import "errors"

// ErrNotConnected is returned by Send once the host connection is gone.
var ErrNotConnected = errors.New("sender not connected")
