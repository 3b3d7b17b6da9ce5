package queue

import "errors"

// ErrClosed is returned when waiting on a closed queue.
var ErrClosed = errors.New("queue closed")
