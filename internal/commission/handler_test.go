package commission

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/promohub/promohub/internal/session"
)

// missingRecipientRepo reports every recipient lookup as unknown, the way
// the postgres repository does for ids that are not valid UUIDs.
type missingRecipientRepo struct{}

func (missingRecipientRepo) Create(ctx context.Context, c Commission) (Commission, error) {
	return c, nil
}

func (missingRecipientRepo) ListByRecipient(ctx context.Context, recipientID string) ([]Commission, error) {
	return nil, ErrNotFound
}

func (missingRecipientRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	return ErrNotFound
}

func TestHistoryUnknownRecipientIsNotFound(t *testing.T) {
	h := NewHandler(NewService(missingRecipientRepo{}))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		session.Attach(c, session.Session{UserID: "admin-1", Role: session.RoleAdmin})
		return c.Next()
	})
	app.Get("/commissions", h.History)

	req := httptest.NewRequest(http.MethodGet, "/commissions?promoterId=not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
