package pinrequest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/promohub/promohub/internal/ledger"
	"github.com/promohub/promohub/internal/session"
)

func newHandlerApp(t *testing.T) (*fiber.App, ledger.Store) {
	t.Helper()
	led := ledger.NewInMemory()
	ledger.EnsureUser(led, "promoter-1")
	h := NewHandler(NewService(NewInMemory(led), nil))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		role := session.RolePromoter
		userID := "promoter-1"
		if c.Get("X-Admin") != "" {
			role = session.RoleAdmin
			userID = "admin-1"
		}
		session.Attach(c, session.Session{UserID: userID, Role: role})
		return c.Next()
	})
	app.Post("/pins/requests", h.Submit)
	app.Post("/pins/requests/:id/approve", h.Approve)
	app.Post("/pins/requests/:id/reject", h.Reject)
	return app, led
}

func postJSON(t *testing.T, app *fiber.App, path string, admin bool, body any) (int, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if admin {
		req.Header.Set("X-Admin", "1")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestSubmitAcceptsEmptyReason(t *testing.T) {
	app, _ := newHandlerApp(t)

	status, body := postJSON(t, app, "/pins/requests", false, fiber.Map{"pins": 5})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, want %d (%v)", status, fiber.StatusCreated, body)
	}
	data := body["data"].(map[string]any)
	if data["reason"] != "" {
		t.Fatalf("reason = %v, want empty", data["reason"])
	}
}

func TestSubmitRejectsMissingPins(t *testing.T) {
	app, _ := newHandlerApp(t)

	status, _ := postJSON(t, app, "/pins/requests", false, fiber.Map{"reason": "restock"})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want %d", status, fiber.StatusBadRequest)
	}
}

func TestApproveOverHandler(t *testing.T) {
	app, led := newHandlerApp(t)

	status, body := postJSON(t, app, "/pins/requests", false, fiber.Map{"pins": 5, "reason": "restock"})
	if status != fiber.StatusCreated {
		t.Fatalf("submit status = %d (%v)", status, body)
	}
	id := body["data"].(map[string]any)["id"].(string)

	status, body = postJSON(t, app, "/pins/requests/"+id+"/approve", true, fiber.Map{"notes": "ok"})
	if status != fiber.StatusOK {
		t.Fatalf("approve status = %d (%v)", status, body)
	}
	data := body["data"].(map[string]any)
	if data["request"].(map[string]any)["status"] != "approved" {
		t.Fatalf("request not approved: %v", data)
	}

	balance, err := led.Balance(context.Background(), "promoter-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 5 {
		t.Fatalf("balance = %d, want 5", balance)
	}

	// A second decision on the same request conflicts.
	status, _ = postJSON(t, app, "/pins/requests/"+id+"/reject", true, fiber.Map{})
	if status != fiber.StatusConflict {
		t.Fatalf("second decision status = %d, want %d", status, fiber.StatusConflict)
	}
}
