package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/okian/posefight/internal/domain/model"
	"github.com/okian/posefight/internal/domain/pose"
)

// MatchView is what the game loop exposes to the player routes.
type MatchView interface {
	Latest() model.TickResult
	ResetMatch()
}

// PlayersHandler serves slot occupancy and match state.
type PlayersHandler struct {
	match MatchView
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(m MatchView) *PlayersHandler {
	return &PlayersHandler{match: m}
}

type playersResponse struct {
	Tick    uint64              `json:"tick"`
	Players []model.PlayerState `json:"players"`
	Winner  pose.Role           `json:"winner"`
}

// HandlePlayers handles GET /players requests.
func (h *PlayersHandler) HandlePlayers(c *fiber.Ctx) error {
	latest := h.match.Latest()
	return c.JSON(playersResponse{
		Tick:    latest.Tick,
		Players: latest.Players[:],
		Winner:  latest.Winner,
	})
}

// HandleReset handles POST /match/reset requests.
func (h *PlayersHandler) HandleReset(c *fiber.Ctx) error {
	h.match.ResetMatch()
	return c.JSON(fiber.Map{"status": "reset"})
}
