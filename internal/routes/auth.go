package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/promoter"
)

// RegisterAuthRoutes wires the public registration and login endpoints.
func RegisterAuthRoutes(r fiber.Router, h *promoter.Handler, loginLimit fiber.Handler) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", loginLimit, h.Login)
}
