// Package sender pushes pose frames to a host using the wire framing.
package sender

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/okian/posefight/internal/adapters/wire"
	"github.com/okian/posefight/internal/domain/pose"
	"github.com/okian/posefight/pkg/logger"
)

// Client is one sender connection. It is safe for concurrent use.
type Client struct {
	dialTimeout  time.Duration
	writeTimeout time.Duration
	logger       logger.Logger

	mu        sync.Mutex
	conn      net.Conn
	connected bool
}

// Dial connects to the host at addr.
func Dial(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	c := &Client{
		dialTimeout:  defaultDialTimeout,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("sender")
	}

	d := net.Dialer{Timeout: c.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial host %s: %w", addr, err)
	}
	c.conn = conn
	c.connected = true
	c.logger.Info(ctx, "connected to host", logger.String("addr", addr))
	return c, nil
}

// Send writes one frame. A nil frame announces that no pose is visible.
//
// The first failed write closes the connection and is returned as is;
// every later call returns ErrNotConnected.
func (c *Client) Send(f *pose.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return ErrNotConnected
	}
	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if err := wire.WriteFrame(c.conn, f); err != nil {
		c.connected = false
		_ = c.conn.Close()
		c.logger.Warn(context.Background(), "host connection lost", logger.Error(err))
		return err
	}
	return nil
}

// Connected reports whether sends can still succeed.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close closes the connection. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("close host connection: %w", err)
	}
	return nil
}
