package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserStatus is the account state
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID             int        `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"` // Never expose in JSON
	Username       *string    `json:"username,omitempty"`
	Role           Role       `json:"role"`
	Status         UserStatus `json:"status"`
	PointsBalance  int        `json:"points_balance"`
	PointsLifetime int        `json:"points_lifetime"`
	LastEarnedAt   *time.Time `json:"last_earned_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// IsAdmin checks if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest is the request body for user registration
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Username *string `json:"username,omitempty"`
}

// LoginRequest is the request body for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after successful login/register
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *User          `json:"user"`
	Points    *PointsSummary `json:"points"`
}

// Profile is the signed-in user with their points standing
type Profile struct {
	User   *User          `json:"user"`
	Points *PointsSummary `json:"points"`
}

// PointsSummary is a user's current standing
type PointsSummary struct {
	UserID         int        `json:"user_id"`
	Balance        int        `json:"balance"`
	Lifetime       int        `json:"lifetime"`
	LastEarnedAt   *time.Time `json:"last_earned_at,omitempty"`
	ReceiptCount   int        `json:"receipt_count"`
	RedeemedPoints int        `json:"redeemed_points"`
}
