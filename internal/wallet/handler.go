package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/promohub/promohub/internal/session"
	"github.com/promohub/promohub/internal/validate"
)

// Handler exposes wallet and withdrawal endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type withdrawRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// Summary returns the wallet aggregates for a promoter.
func (h *Handler) Summary(c *fiber.Ctx) error {
	promoterID, err := resolvePromoter(c)
	if err != nil {
		return err
	}

	summary, err := h.service.Summary(c.UserContext(), promoterID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "wallet lookup failed")
	}
	return c.JSON(fiber.Map{"success": true, "data": summary})
}

// Withdrawals lists a promoter's withdrawal requests, newest first.
func (h *Handler) Withdrawals(c *fiber.Ctx) error {
	promoterID, err := resolvePromoter(c)
	if err != nil {
		return err
	}

	list, err := h.service.ListWithdrawals(c.UserContext(), promoterID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "withdrawal lookup failed")
	}
	return c.JSON(fiber.Map{"success": true, "data": list})
}

// Submit files a withdrawal request for the authenticated promoter.
func (h *Handler) Submit(c *fiber.Ctx) error {
	sess, ok := session.FromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req withdrawRequest
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

	created, err := h.service.SubmitWithdrawal(c.UserContext(), sess.UserID, amount)
	if err != nil {
		return mapWalletError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

// Approve finalizes a pending withdrawal. Admin only.
func (h *Handler) Approve(c *fiber.Ctx) error {
	sess, _ := session.FromCtx(c)

	approved, err := h.service.ApproveWithdrawal(c.UserContext(), c.Params("id"), sess.UserID)
	if err != nil {
		return mapWalletError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": approved})
}

// Reject declines a pending withdrawal. Admin only.
func (h *Handler) Reject(c *fiber.Ctx) error {
	sess, _ := session.FromCtx(c)

	rejected, err := h.service.RejectWithdrawal(c.UserContext(), c.Params("id"), sess.UserID)
	if err != nil {
		return mapWalletError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rejected})
}

// resolvePromoter scopes wallet reads: promoters see themselves, admins may
// pass promoterId for any promoter.
func resolvePromoter(c *fiber.Ctx) (string, error) {
	sess, ok := session.FromCtx(c)
	if !ok {
		return "", fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	if target := c.Query("promoterId"); target != "" && target != sess.UserID {
		if !sess.IsAdmin() {
			return "", fiber.NewError(http.StatusForbidden, "cannot view other promoters")
		}
		return target, nil
	}
	return sess.UserID, nil
}

func mapWalletError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrAlreadyProcessed):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "withdrawal processing failed")
	}
}
