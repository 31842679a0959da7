package pinrequest

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/session"
	"github.com/promohub/promohub/internal/validate"
)

// Handler exposes PIN request endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	Pins   int64  `json:"pins" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"max=500"`
}

type decisionRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// Submit files a new PIN request for the authenticated promoter.
func (h *Handler) Submit(c *fiber.Ctx) error {
	sess, ok := session.FromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Submit(c.UserContext(), sess.UserID, req.Pins, req.Reason)
	if err != nil {
		return mapRequestError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

// List returns PIN requests. Promoters see their own; admins see all, with
// optional pending=true and promoterId filters.
func (h *Handler) List(c *fiber.Ctx) error {
	sess, ok := session.FromCtx(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	f := Filter{PendingOnly: c.QueryBool("pending")}
	if sess.IsAdmin() {
		f.PromoterID = c.Query("promoterId")
	} else {
		f.PromoterID = sess.UserID
	}

	reqs, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "request lookup failed")
	}
	return c.JSON(fiber.Map{"success": true, "data": reqs})
}

// Approve credits the requested PINs and closes the request. Admin only.
func (h *Handler) Approve(c *fiber.Ctx) error {
	sess, _ := session.FromCtx(c)

	var req decisionRequest
	_ = c.BodyParser(&req) // notes are optional

	approved, tx, err := h.service.Approve(c.UserContext(), c.Params("id"), sess.UserID, req.Notes)
	if err != nil {
		return mapRequestError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"request":     approved,
		"transaction": tx,
	}})
}

// Reject closes the request without touching the ledger. Admin only.
func (h *Handler) Reject(c *fiber.Ctx) error {
	sess, _ := session.FromCtx(c)

	var req decisionRequest
	_ = c.BodyParser(&req) // notes are optional

	rejected, err := h.service.Reject(c.UserContext(), c.Params("id"), sess.UserID, req.Notes)
	if err != nil {
		return mapRequestError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rejected})
}

func mapRequestError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicatePending):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrAlreadyProcessed):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "request processing failed")
	}
}
