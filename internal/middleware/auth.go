package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, "Unauthorized: invalid or expired token")
		},
	})
}

// RequireAccessToken rejects refresh tokens presented as bearer credentials.
func RequireAccessToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := session.Claims(c)
		if err != nil || claims["token_type"] != "access" {
			return unauthorized(c, "Given token not valid for any token type")
		}
		return c.Next()
	}
}

// LoadUser resolves the token's user through the cache and stores it on the
// request. Unknown and inactive users are rejected.
func LoadUser(cache *session.UserCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := session.GetUserID(c)
		if err != nil {
			return unauthorized(c, "Token contained no recognizable user identification")
		}
		user, err := cache.Load(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return unauthorized(c, "User not found")
			}
			return err
		}
		if !user.IsActive() {
			return unauthorized(c, "User is inactive")
		}
		session.SetUser(c, user)
		c.Locals("user_id", id.String())
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
