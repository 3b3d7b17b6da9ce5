package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrNotWebSocket is returned when a feed route is hit without an upgrade.
var ErrNotWebSocket = errors.New("websocket upgrade required")

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler renders every handler error as JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(errorResponse{
		Code:    getErrorType(code),
		Message: err.Error(),
	})
}
