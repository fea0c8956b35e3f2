package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the app-wide Fiber error handler. Record errors map to
// their status with per-field messages; anything unrecognized is a 500 that
// is logged and reported.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if ve, ok := apperrors.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid input", Fields: ve.Fields(),
		})
	}
	if ue, ok := apperrors.AsUniqueness(err); ok {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: ue.Error(), Fields: ue.FieldMessages(),
		})
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Not found",
		})
	}
	if errors.Is(err, apperrors.ErrPermissionDenied) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "You do not have permission to perform this action",
		})
	}

	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		userID, _ := c.Locals("user_id").(string)
		slog.Error("unhandled server error",
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"user_id", userID,
			"action", c.Method()+" "+c.Path(),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
