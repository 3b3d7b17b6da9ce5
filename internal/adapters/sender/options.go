package sender

import (
	"time"

	"github.com/okian/posefight/pkg/logger"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 2 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithDialTimeout bounds how long Dial waits for the host.
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.dialTimeout = d
		}
	}
}

// WithWriteTimeout bounds a single Send. Zero disables the deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.writeTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
