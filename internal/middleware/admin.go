package middleware

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// StaffRequired admits active staff users only. It must run after LoadUser.
func StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := session.CurrentUser(c)
		if !ok {
			return unauthorized(c, "Unauthorized")
		}
		if !user.IsActive() || !user.IsStaff() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Staff access required",
			})
		}
		return c.Next()
	}
}
