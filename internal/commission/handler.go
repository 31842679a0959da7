package commission

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/promohub/promohub/internal/session"
	"github.com/promohub/promohub/internal/validate"
)

// Handler exposes commission endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type recordRequest struct {
	CustomerID  string `json:"customerId" validate:"required"`
	InitiatorID string `json:"initiatorId" validate:"required"`
	RecipientID string `json:"recipientId" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=affiliate repayment"`
	Status      string `json:"status" validate:"omitempty,oneof=pending credited completed"`
}

type markStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=credited completed"`
}

// History returns commissions plus aggregated totals. Exactly one of
// promoterId or admin=true must be supplied; promoters may only query their
// own history.
func (h *Handler) History(c *fiber.Ctx) error {
	sess, ok := session.FromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	promoterID := c.Query("promoterId")
	adminView := c.QueryBool("admin")
	if (promoterID == "" && !adminView) || (promoterID != "" && adminView) {
		return fiber.NewError(http.StatusBadRequest, "exactly one of promoterId or admin=true is required")
	}

	var recipient string
	if adminView {
		if !sess.IsAdmin() {
			return fiber.NewError(http.StatusForbidden, "admin view requires admin role")
		}
	} else {
		if promoterID != sess.UserID && !sess.IsAdmin() {
			return fiber.NewError(http.StatusForbidden, "cannot view other promoters")
		}
		recipient = promoterID
	}

	commissions, err := h.service.History(c.UserContext(), recipient)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "commission lookup failed")
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"commissions": commissions,
		"totals":      ComputeTotals(commissions),
	}})
}

// Record persists a new commission. Admin only.
func (h *Handler) Record(c *fiber.Ctx) error {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	created, err := h.service.Record(c.UserContext(), Commission{
		CustomerID:  req.CustomerID,
		InitiatorID: req.InitiatorID,
		RecipientID: req.RecipientID,
		Amount:      amount,
		Kind:        Kind(req.Kind),
		Status:      Status(req.Status),
	})
	if err != nil {
		if errors.Is(err, ErrNegativeAmount) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "commission write failed")
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

// MarkStatus transitions a commission to credited or completed. Admin only.
func (h *Handler) MarkStatus(c *fiber.Ctx) error {
	var req markStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.MarkStatus(c.UserContext(), c.Params("id"), Status(req.Status)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "commission update failed")
	}
	return c.JSON(fiber.Map{"success": true})
}
