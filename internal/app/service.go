// Package service wires the pose store, the connection server and the
// fixed-rate game loop that turns both players' poses into actions.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/posefight/internal/adapters/server"
	"github.com/okian/posefight/internal/adapters/store"
	"github.com/okian/posefight/internal/domain/action"
	"github.com/okian/posefight/internal/domain/match"
	"github.com/okian/posefight/internal/domain/model"
	"github.com/okian/posefight/internal/domain/pose"
	"github.com/okian/posefight/internal/domain/smoothing"
	"github.com/okian/posefight/pkg/logger"
	"github.com/okian/posefight/pkg/metrics"
)

const (
	defaultListenAddr    = ":5000"
	defaultMaxFrameBytes = 1 << 20
	defaultTickInterval  = time.Second / 30
	defaultFeedBuffer    = 64
)

// ErrAlreadyStarted is returned by Start on a running service.
var ErrAlreadyStarted = errors.New("service already started")

// Service owns the shared pose store, the player server and the game loop.
type Service struct {
	mu sync.RWMutex

	// Configuration
	listenAddr       string
	listener         net.Listener
	maxFrameBytes    int
	tickInterval     time.Duration
	minCutoff        float64
	beta             float64
	derivativeCutoff float64
	elbowExtension   float64
	punchVelocity    float64
	cooldown         time.Duration
	startingHealth   int
	punchDamage      int
	feedBuffer       int

	store  *store.PoseStore
	server *server.Server

	// Loop state. Guarded by stepMu so Step, ResetMatch and the loop never
	// interleave.
	stepMu    sync.Mutex
	smoothers [2]*smoothing.Smoother
	detectors [2]*action.Detector
	match     *match.Match
	tick       uint64
	connected  [2]bool
	generation [2]uint64

	latestMu sync.RWMutex
	latest   model.TickResult
	feed     *feed

	// State
	sessionID string
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	loopDone  chan struct{}

	logger logger.Logger
}

// New constructs a Service. Step works right away; Start adds the network
// listener and the ticking loop.
func New(opts ...Option) *Service {
	s := &Service{
		listenAddr:       defaultListenAddr,
		maxFrameBytes:    defaultMaxFrameBytes,
		tickInterval:     defaultTickInterval,
		minCutoff:        smoothing.DefaultMinCutoff,
		beta:             smoothing.DefaultBeta,
		derivativeCutoff: smoothing.DefaultDerivativeCutoff,
		elbowExtension:   action.DefaultElbowExtension,
		punchVelocity:    action.DefaultPunchVelocity,
		cooldown:         action.DefaultCooldown,
		startingHealth:   match.DefaultStartingHealth,
		punchDamage:      match.DefaultPunchDamage,
		feedBuffer:       defaultFeedBuffer,
		sessionID:        uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("game")
	}
	if s.store == nil {
		s.store = store.New()
	}

	for i := range s.smoothers {
		s.smoothers[i] = smoothing.New(
			smoothing.WithMinCutoff(s.minCutoff),
			smoothing.WithBeta(s.beta),
			smoothing.WithDerivativeCutoff(s.derivativeCutoff),
			smoothing.WithDegenerateHook(metrics.RecordDegenerateSample),
		)
		s.detectors[i] = action.NewDetector(
			action.WithElbowExtension(s.elbowExtension),
			action.WithPunchVelocity(s.punchVelocity),
			action.WithCooldown(s.cooldown),
		)
	}
	s.match = match.New(s.startingHealth, s.punchDamage)
	s.feed = newFeed(s.feedBuffer)
	s.latest = s.idleResult(time.Time{})
	return s
}

// Start begins accepting players and ticking the game loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	opts := []server.Option{
		server.WithAddr(s.listenAddr),
		server.WithMaxFrameBytes(frameCap(s.maxFrameBytes)),
		server.WithLogger(s.logger.Named("server")),
	}
	if s.listener != nil {
		opts = append(opts, server.WithListener(s.listener))
	}
	srv := server.New(s.store, opts...)

	loopCtx, cancel := context.WithCancel(ctx)
	if err := srv.Start(loopCtx); err != nil {
		cancel()
		return fmt.Errorf("start player server: %w", err)
	}

	s.server = srv
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	s.started = true
	s.startedAt = time.Now()
	go s.run(loopCtx, s.loopDone)

	s.logger.Info(ctx, "game service started",
		logger.String("session", s.sessionID),
		logger.String("players_addr", srv.Addr().String()),
		logger.Duration("tick", s.tickInterval),
	)
	return nil
}

// Stop shuts the server and the loop down and closes every feed.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping game service")

	s.cancel()
	if err := s.server.Stop(); err != nil {
		s.logger.Warn(context.Background(), "player server stop", logger.Error(err))
	}
	<-s.loopDone
	s.feed.closeAll()

	s.started = false
	s.logger.Info(context.Background(), "game service stopped")
}

// run is the consumer: it ticks at a fixed rate and never blocks on I/O.
func (s *Service) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tickOnce(now)
		}
	}
}

// tickOnce runs Step and keeps the loop alive if it panics.
func (s *Service) tickOnce(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordLoopPanic()
			s.logger.Error(context.Background(), "game loop tick panicked", logger.Any("panic", r))
		}
	}()
	s.Step(now)
}

// frameCap converts the configured payload limit to the wire's uint32,
// saturating on overflow.
func frameCap(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if uint64(n) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}

// Step runs one game loop iteration at now: snapshot both poses, smooth and
// classify each player, score the match and publish the result.
func (s *Service) Step(now time.Time) model.TickResult {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	start := time.Now()
	ctx := context.Background()

	lobby := s.store.State()

	s.tick++
	res := model.TickResult{Tick: s.tick, At: now}
	var fighters [2]match.Fighter

	for i, role := range pose.Roles {
		s.trackConnection(ctx, i, role, lobby.Occupied[i], lobby.Generation[i])

		frame := lobby.Frames[i]
		if frame != nil && frame.Len() < pose.ArmJoints {
			metrics.RecordShortFrame(role.String())
			s.logger.Debug(ctx, "frame too short for arm joints",
				logger.String("role", role.String()),
				logger.Int("joints", frame.Len()),
			)
			frame = nil
		}

		smoothed := s.smoothers[i].Smooth(frame, now)
		act, reading := s.detectors[i].DetectWithReading(smoothed, now)
		if act.IsPunch() {
			metrics.RecordAction(role.String(), string(act))
			s.logger.Debug(ctx, "action detected",
				logger.String("role", role.String()),
				logger.String("action", string(act)),
				logger.Float64("elbow_deg", max(reading.LeftElbow, reading.RightElbow)),
			)
		}

		fighters[i] = match.Fighter{Present: smoothed != nil, Action: act}
		res.Players[i] = model.PlayerState{
			Role:            role,
			Connected:       lobby.Occupied[i],
			Present:         smoothed != nil,
			Action:          act,
			State:           s.detectors[i].State(),
			LeftElbowDeg:    reading.LeftElbow,
			RightElbowDeg:   reading.RightElbow,
			LeftWristSpeed:  reading.LeftWrist,
			RightWristSpeed: reading.RightWrist,
		}
	}

	wasDecided := s.match.Winner() != pose.RoleNone
	outcome := s.match.Apply(fighters[0], fighters[1])
	for i, role := range pose.Roles {
		res.Players[i].Health = outcome.Health[i]
		res.Players[i].Landed = outcome.Landed[i]
		if outcome.Landed[i] {
			metrics.RecordPunchLanded(role.String())
		}
		metrics.UpdateFighterHealth(role.String(), outcome.Health[i])
	}
	res.Winner = outcome.Winner
	if !wasDecided && outcome.Winner != pose.RoleNone {
		s.logger.Info(ctx, "match decided",
			logger.String("winner", outcome.Winner.String()),
			logger.Any("tick", s.tick),
		)
	}

	s.latestMu.Lock()
	s.latest = res
	s.latestMu.Unlock()
	s.feed.publish(res)

	metrics.RecordTick(float64(time.Since(start).Microseconds()) / 1000)
	return res
}

// trackConnection resets a role's filters when its player leaves so the
// next occupant starts from a clean history. A new claim generation means
// the slot changed hands between two ticks.
func (s *Service) trackConnection(ctx context.Context, i int, role pose.Role, connected bool, gen uint64) {
	joined := connected && gen != s.generation[i]
	left := s.connected[i] && (!connected || joined)
	s.connected[i] = connected
	s.generation[i] = gen

	if left {
		s.smoothers[i].Reset()
		s.detectors[i].Reset()
		s.logger.Info(ctx, "player left the match", logger.String("role", role.String()))
	}
	if joined {
		s.logger.Info(ctx, "player joined the match", logger.String("role", role.String()))
	}
}

func (s *Service) idleResult(at time.Time) model.TickResult {
	res := model.TickResult{At: at}
	for i, role := range pose.Roles {
		res.Players[i] = model.PlayerState{
			Role:   role,
			Action: action.Idle,
			State:  action.Active,
			Health: s.match.Health(role),
		}
	}
	return res
}

// ResetMatch restores both fighters to full health. Detector and smoother
// history are kept.
func (s *Service) ResetMatch() {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	s.match.Reset()
	s.logger.Info(context.Background(), "match reset")
	for _, role := range pose.Roles {
		metrics.UpdateFighterHealth(role.String(), s.match.Health(role))
	}

	s.latestMu.Lock()
	for i, role := range pose.Roles {
		s.latest.Players[i].Health = s.match.Health(role)
		s.latest.Players[i].Landed = false
	}
	s.latest.Winner = pose.RoleNone
	s.latestMu.Unlock()
}

// Latest returns the most recent tick result.
func (s *Service) Latest() model.TickResult {
	s.latestMu.RLock()
	defer s.latestMu.RUnlock()
	return s.latest
}

// Addr returns the player listener address, or nil before Start.
func (s *Service) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.server == nil {
		return nil
	}
	return s.server.Addr()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.Latest()
	occ1, occ2 := s.store.Occupied()
	stats := map[string]interface{}{
		"started":        s.started,
		"session_id":     s.sessionID,
		"tick_hz":        int(time.Second / s.tickInterval),
		"tick":           latest.Tick,
		"active_players": s.store.Active(),
		"player_1":       occ1,
		"player_2":       occ2,
		"subscribers":    s.feed.count(),
		"winner":         latest.Winner.String(),
	}
	if s.started {
		stats["uptime_seconds"] = time.Since(s.startedAt).Seconds()
	}
	return stats
}
