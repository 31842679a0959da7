package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promohub/promohub/internal/config"
	"github.com/promohub/promohub/internal/logging"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	err := Setup(app, Deps{
		Cfg: config.Config{
			AppName:         "promohub-test",
			AppEnv:          "dev",
			JWTSecret:       "test-secret",
			AccessTokenTTL:  time.Minute,
			ProfileCacheTTL: time.Minute,
			SubmitPerMinute: 100,
		},
		Logger: logging.Discard(),
	})
	require.NoError(t, err)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App, phone string) (id, token string) {
	t.Helper()
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"phone":    phone,
		"name":     "Test Promoter",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, status, "register: %v", body)
	id = body["data"].(map[string]any)["id"].(string)

	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"phone":    phone,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, status, "login: %v", body)
	token = body["data"].(map[string]any)["token"].(string)
	return id, token
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app := newTestApp(t)
	status, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/pins/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterLoginMe(t *testing.T) {
	app := newTestApp(t)
	id, token := registerAndLogin(t, app, "+15550100")

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, id, data["id"])
	assert.Equal(t, "promoter", data["role"])
}

func TestPromoterCannotUseAdminSurface(t *testing.T) {
	app := newTestApp(t)
	_, token := registerAndLogin(t, app, "+15550101")

	status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/admin/pins/allocate", token, fiber.Map{
		"promoterId": "someone",
		"amount":     10,
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRequestSubmitFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	_, promoterToken := registerAndLogin(t, app, "+15550102")

	// Submit a request as the promoter.
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/pins/requests", promoterToken, fiber.Map{
		"pins":   5,
		"reason": "restock",
	})
	require.Equal(t, http.StatusCreated, status, "submit: %v", body)

	// A second submission while one is pending conflicts.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/pins/requests", promoterToken, fiber.Map{
		"pins":   3,
		"reason": "more",
	})
	assert.Equal(t, http.StatusConflict, status)

	// The promoter sees exactly one request.
	status, body = doJSON(t, app, fiber.MethodGet, "/api/v1/pins/requests", promoterToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)
}

func TestCommissionHistoryValidation(t *testing.T) {
	app := newTestApp(t)
	_, token := registerAndLogin(t, app, "+15550104")

	// Neither promoterId nor admin=true.
	status, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/commissions/history", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Both at once.
	status, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/commissions/history?promoterId=x&admin=true", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Admin view requires the admin role.
	status, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/commissions/history?admin=true", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestWalletSummaryEmpty(t *testing.T) {
	app := newTestApp(t)
	id, token := registerAndLogin(t, app, "+15550105")

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/wallet?promoterId="+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "0", data["total_earned"])
	assert.Equal(t, "0", data["available_balance"])

	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/withdrawals", token, fiber.Map{"amount": "50"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}
