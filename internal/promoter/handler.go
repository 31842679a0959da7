package promoter

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/auth"
	"github.com/promohub/promohub/internal/session"
	"github.com/promohub/promohub/internal/validate"
)

// Handler exposes registration, login, and profile endpoints.
type Handler struct {
	service *Service
	tokens  *auth.TokenManager
	cache   *session.ProfileCache
}

func NewHandler(service *Service, tokens *auth.TokenManager, cache *session.ProfileCache) *Handler {
	return &Handler{service: service, tokens: tokens, cache: cache}
}

type registerRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Name     string `json:"name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin promoter customer"`
}

// Register creates a promoter account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	p, err := h.service.Register(c.UserContext(), Credentials{Phone: req.Phone, Password: req.Password}, req.Name)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": p.Profile()})
}

// Login verifies credentials and issues an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	p, err := h.service.Authenticate(c.UserContext(), Credentials{Phone: req.Phone, Password: req.Password})
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := h.tokens.Issue(p.ID, p.Role)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "token issue failed")
	}
	_ = h.cache.Put(c.UserContext(), p.Profile())

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"token":     token,
		"expiresAt": expiresAt,
		"profile":   p.Profile(),
	}})
}

// Logout drops the cached profile for the caller.
func (h *Handler) Logout(c *fiber.Ctx) error {
	sess, ok := session.FromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	if err := h.service.Logout(c.UserContext(), sess.UserID); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "logout failed")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Me returns the caller's profile.
func (h *Handler) Me(c *fiber.Ctx) error {
	sess, ok := session.FromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	p, err := h.service.Get(c.UserContext(), sess.UserID)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "promoter not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": p.Profile()})
}

// ChangeRole updates a promoter's role. Admin only.
func (h *Handler) ChangeRole(c *fiber.Ctx) error {
	var req changeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	role, err := session.ParseRole(req.Role)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ChangeRole(c.UserContext(), c.Params("id"), role); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "role update failed")
	}
	return c.JSON(fiber.Map{"success": true})
}
