package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid input", Fields: requiredFields(map[string]string{
				"email": req.Email, "password": req.Password,
			}),
		})
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrInactiveUser) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: services.ErrInvalidCredentials.Error(),
			})
		}
		return err
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return badRequest(c)
	}

	resp, err := h.authService.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrInactiveUser) {
			return invalidToken(c)
		}
		return err
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return badRequest(c)
	}

	if err := h.authService.Verify(c.UserContext(), req.Token); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return invalidToken(c)
		}
		return err
	}

	return c.JSON(fiber.Map{})
}

func (h *AuthHandler) Blacklist(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return badRequest(c)
	}

	if err := h.authService.Blacklist(c.UserContext(), req.Refresh); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return invalidToken(c)
		}
		return err
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := session.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return c.JSON(services.ToResponse(user))
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	user, ok := session.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	updated, err := h.userService.UpdateProfile(c.UserContext(), user.ID, &req)
	if err != nil {
		return err
	}

	return c.JSON(services.ToResponse(updated))
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

func invalidToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: services.ErrInvalidToken.Error(),
	})
}

func requiredFields(values map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range values {
		if v == "" {
			out[k] = "This field is required."
		}
	}
	return out
}
