// Package server accepts player connections, assigns each one a role slot
// and runs a stream reader per connection that feeds the pose store.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/posefight/internal/adapters/store"
	"github.com/okian/posefight/internal/adapters/wire"
	"github.com/okian/posefight/internal/domain/pose"
	"github.com/okian/posefight/pkg/logger"
	"github.com/okian/posefight/pkg/metrics"
)

const (
	defaultAddr          = ":5000"
	defaultMaxFrameBytes = 1 << 20
	minFrameBytes        = 2 // len("[]")

	acceptBackoffMin = 5 * time.Millisecond
	acceptBackoffMax = time.Second
)

// Reasons a player connection ended, as reported in logs and metrics.
const (
	reasonEOF       = "eof"
	reasonOversize  = "oversize"
	reasonShutdown  = "shutdown"
	reasonTransport = "transport"
	reasonPanic     = "panic"
)

// Server is the connection acceptor. Readers run detached: a failure in
// one connection is logged and never reaches the acceptor or the other
// player.
type Server struct {
	store         *store.PoseStore
	addr          string
	maxFrameBytes uint32
	listener      net.Listener
	logger        logger.Logger

	mu       sync.Mutex
	started  bool
	stopping atomic.Bool
}

// New builds a server that publishes decoded frames into st.
func New(st *store.PoseStore, opts ...Option) *Server {
	s := &Server{
		store:         st,
		addr:          defaultAddr,
		maxFrameBytes: defaultMaxFrameBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("server")
	}
	return s
}

// Start binds the listener, unless one was injected, and spawns the
// accept loop. Cancelling ctx stops the server.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	if s.listener == nil {
		var lc net.ListenConfig
		ln, err := lc.Listen(ctx, "tcp", s.addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.addr, err)
		}
		s.listener = ln
	}
	s.started = true

	s.logger.Info(ctx, "listening for players", logger.String("addr", s.listener.Addr().String()))
	go s.acceptLoop(ctx)
	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and both player connections. Readers notice
// the failed read and exit on their own. Stop is idempotent.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if s.stopping.Swap(true) {
		return nil
	}
	s.logger.Info(context.Background(), "stopping server")

	var errs []error
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		errs = append(errs, err)
	}
	if err := s.store.CloseAll(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Server) acceptLoop(ctx context.Context) {
	backoff := time.Duration(0)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping.Load() || errors.Is(err, net.ErrClosed) {
				s.logger.Debug(ctx, "accept loop finished")
				return
			}
			metrics.RecordAcceptError()
			backoff = nextBackoff(backoff)
			s.logger.Warn(ctx, "accept failed; retrying",
				logger.Error(err),
				logger.Duration("backoff", backoff),
			)
			time.Sleep(backoff)
			continue
		}
		backoff = 0
		s.admit(ctx, conn)
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return acceptBackoffMin
	}
	return min(2*d, acceptBackoffMax)
}

// admit claims a role for conn or turns it away when the lobby is full.
func (s *Server) admit(ctx context.Context, conn net.Conn) {
	log := s.logger.With(
		logger.String("conn_id", uuid.NewString()),
		logger.String("remote", conn.RemoteAddr().String()),
	)

	role, err := s.store.Claim(conn)
	if err != nil {
		metrics.RecordConnectionRejected()
		log.Info(ctx, "lobby full; rejecting connection")
		_ = conn.Close()
		return
	}
	if s.stopping.Load() {
		s.store.Release(role, conn)
		_ = conn.Close()
		return
	}

	metrics.RecordConnectionAccepted(role.String())
	metrics.UpdateActivePlayers(s.store.Active())
	log = log.With(logger.String("role", role.String()))
	log.Info(ctx, "player connected")

	go s.serve(ctx, conn, role, log)
}

// serve is the stream reader for one connection.
func (s *Server) serve(ctx context.Context, conn net.Conn, role pose.Role, log logger.Logger) {
	reason := reasonPanic
	defer func() {
		s.store.Release(role, conn)
		_ = conn.Close()
		metrics.RecordConnectionClosed(role.String(), reason)
		metrics.UpdateActivePlayers(s.store.Active())
		log.Info(ctx, "player disconnected", logger.String("reason", reason))
	}()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordReaderPanic()
			log.Error(ctx, "stream reader panicked", logger.Any("panic", r))
		}
	}()

	reason = s.readLoop(ctx, conn, role, log)
}

func (s *Server) readLoop(ctx context.Context, r io.Reader, role pose.Role, log logger.Logger) string {
	name := role.String()
	for {
		payload, err := wire.ReadPayload(r, s.maxFrameBytes)
		if err != nil {
			reason := classify(err, s.stopping.Load())
			if reason == reasonTransport || reason == reasonOversize {
				log.Warn(ctx, "stream read failed", logger.Error(err))
			}
			return reason
		}
		metrics.RecordFrameReceived(name, len(payload))

		frame, err := wire.Decode(payload)
		switch {
		case err != nil:
			metrics.RecordDecodeError(name)
			log.Debug(ctx, "dropping undecodable frame", logger.Error(err), logger.Int("bytes", len(payload)))
		case frame == nil:
			metrics.RecordEmptyFrame(name)
		}
		_ = s.store.Set(role, frame)
	}
}

func classify(err error, stopping bool) string {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return reasonEOF
	case errors.Is(err, wire.ErrPayloadTooLarge):
		return reasonOversize
	case stopping, errors.Is(err, net.ErrClosed):
		return reasonShutdown
	default:
		return reasonTransport
	}
}
