package service

import (
	"net"
	"time"

	"github.com/okian/posefight/internal/adapters/store"
	"github.com/okian/posefight/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithListenAddr sets the TCP address players connect to.
func WithListenAddr(addr string) Option {
	return func(s *Service) {
		if addr != "" {
			s.listenAddr = addr
		}
	}
}

// WithListener serves players on an already bound listener.
func WithListener(ln net.Listener) Option {
	return func(s *Service) {
		s.listener = ln
	}
}

// WithMaxFrameBytes caps the payload a player may announce.
func WithMaxFrameBytes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFrameBytes = n
		}
	}
}

// WithTickRate sets how many game loop iterations run per second.
func WithTickRate(hz int) Option {
	return func(s *Service) {
		if hz > 0 {
			s.tickInterval = time.Second / time.Duration(hz)
		}
	}
}

// WithSmoothing tunes the per-player landmark smoother.
func WithSmoothing(minCutoff, beta, derivativeCutoff float64) Option {
	return func(s *Service) {
		s.minCutoff = minCutoff
		s.beta = beta
		s.derivativeCutoff = derivativeCutoff
	}
}

// WithDetection tunes the per-player action detector.
func WithDetection(elbowExtensionDeg, punchVelocity float64, cooldown time.Duration) Option {
	return func(s *Service) {
		s.elbowExtension = elbowExtensionDeg
		s.punchVelocity = punchVelocity
		s.cooldown = cooldown
	}
}

// WithMatch sets starting health and damage per landed punch.
func WithMatch(startingHealth, punchDamage int) Option {
	return func(s *Service) {
		s.startingHealth = startingHealth
		s.punchDamage = punchDamage
	}
}

// WithFeedBuffer sets the per-subscriber tick queue capacity.
func WithFeedBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.feedBuffer = n
		}
	}
}

// WithStore replaces the pose store, mainly so tests can drive Step
// without network peers.
func WithStore(st *store.PoseStore) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
