package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/commission"
)

// RegisterCommissionRoutes wires commission history for authenticated users.
func RegisterCommissionRoutes(r fiber.Router, h *commission.Handler) {
	r.Get("/commissions/history", h.History)
}
