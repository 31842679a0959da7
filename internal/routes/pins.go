package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/allocation"
	"github.com/promohub/promohub/internal/ledger"
	"github.com/promohub/promohub/internal/pinrequest"
)

// RegisterPinRoutes wires PIN balance, history, request, and customer
// onboarding endpoints for authenticated promoters.
func RegisterPinRoutes(r fiber.Router, lh *ledger.Handler, rh *pinrequest.Handler, ah *allocation.Handler, submitLimit fiber.Handler, guards []fiber.Handler) {
	r.Get("/pins/balance", lh.Balance)
	r.Get("/pins/transactions", lh.Transactions)
	r.Get("/pins/requests", rh.List)

	submit := append(append([]fiber.Handler{submitLimit}, guards...), rh.Submit)
	r.Post("/pins/requests", submit...)

	onboard := append(append([]fiber.Handler{}, guards...), ah.Onboard)
	r.Post("/customers", onboard...)
}
