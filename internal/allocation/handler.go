package allocation

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/ledger"
	"github.com/promohub/promohub/internal/session"
	"github.com/promohub/promohub/internal/validate"
)

// Handler exposes admin PIN allocation endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type adjustRequest struct {
	PromoterID string `json:"promoterId" validate:"required"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

type onboardRequest struct {
	CustomerName string `json:"customerName" validate:"required,max=200"`
}

// Allocate credits PINs to a promoter. Admin only.
func (h *Handler) Allocate(c *fiber.Ctx) error {
	sess, _ := session.FromCtx(c)

	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.service.Allocate(c.UserContext(), req.PromoterID, req.Amount, sess.UserID)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": tx})
}

// Deduct removes PINs from a promoter. Admin only.
func (h *Handler) Deduct(c *fiber.Ctx) error {
	sess, _ := session.FromCtx(c)

	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.service.Deduct(c.UserContext(), req.PromoterID, req.Amount, sess.UserID)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": tx})
}

// Onboard spends one PIN from the authenticated promoter to create a customer.
func (h *Handler) Onboard(c *fiber.Ctx) error {
	sess, ok := session.FromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req onboardRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.service.OnboardCustomer(c.UserContext(), sess.UserID, req.CustomerName)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": tx})
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrUserNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "ledger write failed")
	}
}
