package handlers

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/foxxcyber/receipt-rewards/internal/database"
	"github.com/foxxcyber/receipt-rewards/internal/middleware"
	"github.com/foxxcyber/receipt-rewards/internal/models"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)
)

// normalizeEmail lowercases and trims an address so one mailbox maps to one
// points account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegistration returns the message for the first invalid field, or "".
func validateRegistration(req *models.RegisterRequest) string {
	switch {
	case !emailRegex.MatchString(req.Email):
		return "invalid email format"
	case len(req.Password) < 8:
		return "password must be at least 8 characters"
	case req.Username != nil && !usernameRegex.MatchString(*req.Username):
		return "username must be 3 to 50 letters, digits, dots, dashes or underscores"
	}
	return ""
}

// summaryFromUser builds a points standing from the balance columns on the
// user row, for when the ledger summary cannot be read.
func summaryFromUser(user *models.User) *models.PointsSummary {
	return &models.PointsSummary{
		UserID:       user.ID,
		Balance:      user.PointsBalance,
		Lifetime:     user.PointsLifetime,
		LastEarnedAt: user.LastEarnedAt,
	}
}

// pointsFor reads the ledger summary of a user, falling back to the user row.
func (h *Handler) pointsFor(ctx context.Context, user *models.User) *models.PointsSummary {
	summary, err := h.db.GetPointsSummary(ctx, user.ID)
	if err != nil {
		log.Printf("Warning: Failed to load points summary for user %d: %v", user.ID, err)
		return summaryFromUser(user)
	}
	return summary
}

// Register creates an account with an empty points balance
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = normalizeEmail(req.Email)

	if msg := validateRegistration(&req); msg != "" {
		return Error(c, fiber.StatusBadRequest, msg)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to process password")
	}

	user, err := h.db.CreateUser(c.Context(), req.Email, string(hashedPassword), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrEmailExists):
			return Error(c, fiber.StatusConflict, "email already registered")
		case errors.Is(err, database.ErrUsernameExists):
			return Error(c, fiber.StatusConflict, "username already taken")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create user")
	}

	token, expiresAt, err := h.generateToken(user)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
		Points:    summaryFromUser(user),
	})
}

// Login authenticates an active account and returns its points standing
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := h.db.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, fiber.StatusInternalServerError, "authentication failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	// Inactive accounts keep their ledger but cannot upload or redeem.
	if user.Status != models.UserStatusActive {
		return Error(c, fiber.StatusForbidden, "account is not active")
	}

	if err := h.db.UpdateUserLastLogin(c.Context(), user.ID); err != nil {
		log.Printf("Warning: Failed to update last login for user %d: %v", user.ID, err)
	}

	token, expiresAt, err := h.generateToken(user)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
		Points:    h.pointsFor(c.Context(), user),
	})
}

// GetCurrentUser returns the signed-in user with balance, lifetime points,
// receipt count and redeemed total
func (h *Handler) GetCurrentUser(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.db.GetUserByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get user")
	}

	return Success(c, models.Profile{
		User:   user,
		Points: h.pointsFor(c.Context(), user),
	})
}

// RefreshToken issues a new token for an account that is still active
func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.db.GetUserByID(c.Context(), userID)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if user.Status != models.UserStatusActive {
		return Error(c, fiber.StatusForbidden, "account is not active")
	}

	token, expiresAt, err := h.generateToken(user)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return Success(c, fiber.Map{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// generateToken signs a token carrying the user's id and role
func (h *Handler) generateToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(h.cfg.JWTExpiry)
	claims := &middleware.JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.Email,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
