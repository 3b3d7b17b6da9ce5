package server

import (
	"net"

	"github.com/okian/posefight/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAddr sets the TCP listen address, e.g. ":5000".
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithMaxFrameBytes caps the payload size a peer may announce. A larger
// announcement ends that peer's connection.
func WithMaxFrameBytes(n uint32) Option {
	return func(s *Server) {
		if n >= minFrameBytes {
			s.maxFrameBytes = n
		}
	}
}

// WithListener makes Start serve ln instead of binding addr.
func WithListener(ln net.Listener) Option {
	return func(s *Server) {
		if ln != nil {
			s.listener = ln
		}
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
