package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/okian/posefight/internal/adapters/replay"
	"github.com/okian/posefight/internal/adapters/sender"
	"github.com/okian/posefight/internal/config"
	"github.com/okian/posefight/pkg/logger"
)

const defaultHost = "127.0.0.1"

// options holds the parsed command line.
type options struct {
	host   string
	port   int
	script string
	fps    int
	loop   bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("sender", flag.ContinueOnError)
	fs.StringVar(&o.host, "host", defaultHost, "Host address to connect to")
	fs.IntVar(&o.port, "port", config.DefaultPlayerPort, "Host pose port")
	fs.StringVar(&o.script, "script", "", "YAML choreography to replay (default: built-in guard/jab loop)")
	fs.IntVar(&o.fps, "fps", 0, "Frames per second (default: the script's fps)")
	fs.BoolVar(&o.loop, "loop", false, "Replay until interrupted even if the script does not loop")
	err := fs.Parse(args)
	return o, err
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("sender")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	script, err := loadScript(opts.script)
	if err != nil {
		log.Error(ctx, "failed to load script", logger.String("path", opts.script), logger.Error(err))
		return
	}
	rate := script.FPS
	if opts.fps > 0 {
		rate = opts.fps
	}

	addr := net.JoinHostPort(opts.host, strconv.Itoa(opts.port))
	client, err := sender.Dial(ctx, addr, sender.WithLogger(log))
	if err != nil {
		log.Error(ctx, "failed to connect", logger.String("addr", addr), logger.Error(err))
		return
	}
	defer func() { _ = client.Close() }()

	stats, err := client.Stream(ctx, script.Frames(), rate, opts.loop || script.Loop)
	fields := []logger.Field{
		logger.Int("frames_sent", stats.FramesSent),
		logger.Int("loops", stats.Loops),
		logger.Duration("duration", stats.Duration),
	}
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		log.Info(context.Background(), "sender finished", fields...)
	default:
		log.Error(context.Background(), "stream aborted", append(fields, logger.Error(err))...)
	}
}

// loadScript reads the script at path, or builds the default shadowbox
// routine when path is empty.
func loadScript(path string) (*replay.Script, error) {
	if path != "" {
		return replay.Load(path)
	}
	return replay.Parse(shadowbox)
}

// shadowbox is a guard with alternating jabs, long enough on guard for the
// smoother to settle between punches.
var shadowbox = []byte(`
fps: ` + strconv.Itoa(replay.DefaultFPS) + `
loop: true
keyframes:
  - {pose: guard, hold: 20}
  - {pose: jab_left, hold: 6}
  - {pose: guard, hold: 20}
  - {pose: jab_right, hold: 6}
`)
