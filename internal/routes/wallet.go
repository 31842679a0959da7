package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/wallet"
)

// RegisterWalletRoutes wires wallet summary and withdrawal endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, submitLimit fiber.Handler, guards []fiber.Handler) {
	r.Get("/wallet", h.Summary)
	r.Get("/withdrawals", h.Withdrawals)

	submit := append(append([]fiber.Handler{submitLimit}, guards...), h.Submit)
	r.Post("/withdrawals", submit...)
}
