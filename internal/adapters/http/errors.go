package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/mapboard/internal/core/domain"
	"github.com/samirrijal/mapboard/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, internal_error, ...
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

const internalMessage = "internal server error"

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal logs err and returns a 500 without leaking the detail.
func errInternal(c *fiber.Ctx, err error) error {
	logging.FromContext(c.UserContext()).Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return newError(c, fiber.StatusInternalServerError, "internal_error", internalMessage)
}

// errFromDomain maps service errors to responses.
func errFromDomain(c *fiber.Ctx, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, notFoundMsg)
	case errors.Is(err, domain.ErrInvalidFilename):
		return errBadRequest(c, "invalid image filename")
	case errors.Is(err, domain.ErrInvalidGeometry), errors.Is(err, domain.ErrInvalidInput):
		return errBadRequest(c, err.Error())
	default:
		return errInternal(c, err)
	}
}

var statusCodes = map[int]string{
	fiber.StatusBadRequest:            "bad_request",
	fiber.StatusNotFound:              "not_found",
	fiber.StatusMethodNotAllowed:      "method_not_allowed",
	fiber.StatusRequestEntityTooLarge: "payload_too_large",
	fiber.StatusTooManyRequests:       "rate_limited",
	fiber.StatusUpgradeRequired:       "upgrade_required",
	fiber.StatusRequestTimeout:        "timeout",
}

// ErrorHandler renders errors that escape handlers (fiber errors, timeouts,
// panics recovered by middleware) in the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return errInternal(c, err)
	}
	if fe.Code >= fiber.StatusInternalServerError {
		return errInternal(c, err)
	}
	code, ok := statusCodes[fe.Code]
	if !ok {
		code = "error"
	}
	return newError(c, fe.Code, code, fe.Message)
}
