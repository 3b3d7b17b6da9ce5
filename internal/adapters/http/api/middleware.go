package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/okian/posefight/pkg/metrics"
)

// HTTP status code constants.
const (
	statusBadRequest    = 400
	statusNotFound      = 404
	statusUpgrade       = 426
	statusInternalError = 500
)

// MetricsMiddleware records one request metric per route.
func MetricsMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case err != nil:
		status = statusInternalError
	}

	endpoint := c.Route().Path
	if status == statusNotFound {
		endpoint = "unmatched"
	}
	durationMs := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordHTTPRequest(endpoint, c.Method(), strconv.Itoa(status), durationMs)
	return err
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "server_error"
	case statusCode == statusUpgrade:
		return "upgrade_required"
	case statusCode == statusNotFound:
		return "not_found"
	case statusCode >= statusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}
