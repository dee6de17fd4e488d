package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/receipt-rewards/internal/config"
	"github.com/foxxcyber/receipt-rewards/internal/middleware"
	"github.com/foxxcyber/receipt-rewards/internal/models"
)

func strPtr(s string) *string { return &s }

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "juan@example.ph", normalizeEmail("  Juan@Example.PH \n"))
	assert.Equal(t, "", normalizeEmail("   "))
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name string
		req  models.RegisterRequest
		want string
	}{
		{"valid", models.RegisterRequest{Email: "a@b.ph", Password: "longenough"}, ""},
		{"valid with username", models.RegisterRequest{Email: "a@b.ph", Password: "longenough", Username: strPtr("juan.dc")}, ""},
		{"bad email", models.RegisterRequest{Email: "not-an-email", Password: "longenough"}, "invalid email format"},
		{"short password", models.RegisterRequest{Email: "a@b.ph", Password: "short"}, "password must be at least 8 characters"},
		{"short username", models.RegisterRequest{Email: "a@b.ph", Password: "longenough", Username: strPtr("jd")}, "username must be 3 to 50 letters, digits, dots, dashes or underscores"},
		{"username with space", models.RegisterRequest{Email: "a@b.ph", Password: "longenough", Username: strPtr("juan dc")}, "username must be 3 to 50 letters, digits, dots, dashes or underscores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validateRegistration(&tt.req))
		})
	}
}

func TestSummaryFromUser(t *testing.T) {
	earned := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	user := &models.User{ID: 7, PointsBalance: 120, PointsLifetime: 340, LastEarnedAt: &earned}

	summary := summaryFromUser(user)
	assert.Equal(t, 7, summary.UserID)
	assert.Equal(t, 120, summary.Balance)
	assert.Equal(t, 340, summary.Lifetime)
	require.NotNil(t, summary.LastEarnedAt)
	assert.True(t, summary.LastEarnedAt.Equal(earned))
}

func TestGenerateToken_RoundTripsClaims(t *testing.T) {
	h := &Handler{cfg: &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}}
	user := &models.User{ID: 42, Email: "cashier@example.ph", Role: models.RoleAdmin}

	before := time.Now()
	token, expiresAt, err := h.generateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := middleware.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "cashier@example.ph", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = middleware.ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestRegister_RejectsInvalidInputBeforeTouchingStore(t *testing.T) {
	h := &Handler{cfg: &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/register", h.Register)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"email":`, "invalid request body"},
		{"bad email", `{"email":"nope","password":"longenough"}`, "invalid email format"},
		{"short password", `{"email":" Juan@Example.PH ","password":"short"}`, "password must be at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var body APIResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.want, body.Error)
		})
	}
}
