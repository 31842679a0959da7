package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/session"
)

// Handler exposes PIN balance and transaction history endpoints.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Balance returns the caller's current PIN balance. Admins may query any
// promoter via the promoterId query parameter.
func (h *Handler) Balance(c *fiber.Ctx) error {
	userID, err := subjectID(c)
	if err != nil {
		return err
	}

	balance, err := h.store.Balance(c.UserContext(), userID)
	if errors.Is(err, ErrUserNotFound) {
		return fiber.NewError(http.StatusNotFound, "promoter not found")
	}
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "balance lookup failed")
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"promoterId": userID,
		"balance":    balance,
	}})
}

// Transactions returns the caller's PIN transaction history, newest first.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	userID, err := subjectID(c)
	if err != nil {
		return err
	}

	f := Filter{UserID: userID}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fiber.NewError(http.StatusBadRequest, "invalid limit")
		}
		f.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fiber.NewError(http.StatusBadRequest, "invalid offset")
		}
		f.Offset = n
	}

	txs, err := h.store.List(c.UserContext(), f)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "transaction lookup failed")
	}
	return c.JSON(fiber.Map{"success": true, "data": txs})
}

// subjectID resolves which promoter the request is about: the caller
// themselves, or an explicit promoterId when the caller is an admin.
func subjectID(c *fiber.Ctx) (string, error) {
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
