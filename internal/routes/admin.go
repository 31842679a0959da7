package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/allocation"
	"github.com/promohub/promohub/internal/commission"
	"github.com/promohub/promohub/internal/middleware"
	"github.com/promohub/promohub/internal/pinrequest"
	"github.com/promohub/promohub/internal/promoter"
	"github.com/promohub/promohub/internal/wallet"
)

// RegisterAdminRoutes wires the admin-only surface: request decisions,
// allocation, commission writes, withdrawal decisions, and role changes.
func RegisterAdminRoutes(r fiber.Router, rh *pinrequest.Handler, ah *allocation.Handler, ch *commission.Handler, wh *wallet.Handler, ph *promoter.Handler, guards []fiber.Handler) {
	admin := r.Group("/admin", middleware.RequireAdmin())

	mutate := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guards...), h)
	}

	admin.Post("/pins/requests/:id/approve", mutate(rh.Approve)...)
	admin.Post("/pins/requests/:id/reject", mutate(rh.Reject)...)
	admin.Post("/pins/allocate", mutate(ah.Allocate)...)
	admin.Post("/pins/deduct", mutate(ah.Deduct)...)

	admin.Post("/commissions", mutate(ch.Record)...)
	admin.Post("/commissions/:id/status", mutate(ch.MarkStatus)...)

	admin.Post("/withdrawals/:id/approve", mutate(wh.Approve)...)
	admin.Post("/withdrawals/:id/reject", mutate(wh.Reject)...)

	admin.Post("/promoters/:id/role", mutate(ph.ChangeRole)...)
}
