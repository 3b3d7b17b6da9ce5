package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/posefight/internal/adapters/http/api"
	app "github.com/okian/posefight/internal/app"
	"github.com/okian/posefight/internal/config"
	"github.com/okian/posefight/pkg/logger"
	"github.com/okian/posefight/pkg/metrics"
)

// Timing constants.
const (
	shutdownTimeout       = 10 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(serviceOptions(cfg, loggerInstance)...)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start game service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	httpApp := api.NewServer(svc).App()
	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		loggerInstance.Error(ctx, "failed to bind HTTP address", logger.String("addr", cfg.HTTPAddr), logger.Error(err))
		return
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := httpApp.Listener(ln); err != nil {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(context.Background(), "shutting down...")

	if err := httpApp.ShutdownWithTimeout(shutdownTimeout); err != nil {
		loggerInstance.Error(context.Background(), "HTTP shutdown failed", logger.Error(err))
	}
	loggerInstance.Info(context.Background(), "host stopped")
}

// serviceOptions maps configuration onto game service options.
func serviceOptions(cfg *config.Config, l logger.Logger) []app.Option {
	return []app.Option{
		app.WithLogger(l.Named("game")),
		app.WithListenAddr(cfg.ListenAddr),
		app.WithMaxFrameBytes(cfg.MaxFrameBytes),
		app.WithTickRate(cfg.TickHz),
		app.WithSmoothing(cfg.MinCutoff, cfg.Beta, cfg.DerivativeCutoff),
		app.WithDetection(cfg.ElbowExtensionDeg, cfg.PunchVelocity, cfg.Cooldown()),
		app.WithMatch(cfg.StartingHealth, cfg.PunchDamage),
		app.WithFeedBuffer(cfg.FeedBuffer),
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
