// Package session carries the authenticated user through a request.
package session

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userKey = "current_user"

// Claims returns the verified JWT claims stored by the JWT middleware.
func Claims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// GetUserID extracts the user UUID from the JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := Claims(c)
	if err != nil {
		return uuid.Nil, err
	}
	sub, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing user_id claim")
	}
	return uuid.Parse(sub)
}

func SetUser(c *fiber.Ctx, u *models.User) {
	c.Locals(userKey, u)
}

// CurrentUser returns the user loaded for this request, if any.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	u, ok := c.Locals(userKey).(*models.User)
	return u, ok && u != nil
}
