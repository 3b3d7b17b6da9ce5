package sender

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/posefight/internal/domain/pose"
	"github.com/okian/posefight/pkg/logger"
)

// Stats summarises one Stream run.
type Stats struct {
	FramesSent int
	Loops      int
	StartTime  time.Time
	Duration   time.Duration
}

// Stream sends frames at fps until they run out, or forever when loop is
// set. It returns when ctx is done, the list is exhausted or a send fails.
func (c *Client) Stream(ctx context.Context, frames []*pose.Frame, fps int, loop bool) (Stats, error) {
	stats := Stats{StartTime: time.Now()}
	if len(frames) == 0 {
		return stats, nil
	}
	if fps <= 0 {
		return stats, fmt.Errorf("stream: fps must be positive, got %d", fps)
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	c.logger.Info(ctx, "streaming frames",
		logger.Int("frames", len(frames)),
		logger.Int("fps", fps),
		logger.Bool("loop", loop),
	)

	i := 0
	for {
		if err := c.Send(frames[i]); err != nil {
			stats.Duration = time.Since(stats.StartTime)
			return stats, fmt.Errorf("send frame %d: %w", stats.FramesSent, err)
		}
		stats.FramesSent++

		i++
		if i == len(frames) {
			stats.Loops++
			if !loop {
				stats.Duration = time.Since(stats.StartTime)
				return stats, nil
			}
			i = 0
		}

		select {
		case <-ctx.Done():
			stats.Duration = time.Since(stats.StartTime)
			return stats, ctx.Err()
		case <-ticker.C:
		}
	}
}
