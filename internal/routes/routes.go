package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/admin"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	users *session.UserCache,
	site *admin.Site,
) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Token endpoints: 10 req/min per IP (stricter)
	authLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	token := api.Group("/token", authLimit)
	token.Post("/", authHandler.Token)
	token.Post("/refresh/", authHandler.Refresh)
	token.Post("/verify/", authHandler.Verify)
	token.Post("/blacklist/", authHandler.Blacklist)

	api.Post("/auth/register", authLimit, authHandler.Register)

	// Authenticated routes: a valid access token for an active user
	authed := []fiber.Handler{
		middleware.JWTProtected(cfg),
		middleware.RequireAccessToken(),
		middleware.LoadUser(users),
	}

	me := api.Group("/me", authed...)
	me.Get("/", authHandler.Me)
	me.Put("/", authHandler.UpdateMe)

	adminGroup := api.Group("/admin", append(authed, middleware.StaffRequired())...)
	site.Mount(adminGroup)
}
