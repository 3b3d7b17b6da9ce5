package api

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/okian/posefight/internal/adapters/mq/queue"
	"github.com/okian/posefight/pkg/logger"
)

const feedWriteTimeout = 2 * time.Second

// Feed hands out tick subscriptions.
type Feed interface {
	Subscribe() (string, queue.Queue)
	Unsubscribe(id string)
}

// FeedHandler streams tick results to spectators over websockets.
type FeedHandler struct {
	feed   Feed
	logger logger.Logger
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(f Feed, l logger.Logger) *FeedHandler {
	return &FeedHandler{feed: f, logger: l}
}

// RequireUpgrade rejects plain HTTP requests on websocket routes.
func (h *FeedHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.NewError(fiber.StatusUpgradeRequired, ErrNotWebSocket.Error())
}

// HandleTicks is GET /ws/ticks. Every tick is sent as one JSON text
// message until the client goes away or the feed is closed.
func (h *FeedHandler) HandleTicks() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id, q := h.feed.Subscribe()
		defer h.feed.Unsubscribe(id)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		log := h.logger.With(logger.String("subscriber", id), logger.String("remote", conn.RemoteAddr().String()))
		log.Info(ctx, "spectator connected")

		// Spectators never send; a read error means the peer left.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			tick, err := q.Next(ctx)
			if err != nil {
				break
			}
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteJSON(tick); err != nil {
				log.Debug(ctx, "spectator write failed", logger.Error(err))
				break
			}
		}
		log.Info(ctx, "spectator disconnected")
	})
}
