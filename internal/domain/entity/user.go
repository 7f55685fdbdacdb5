package entity

import "time"

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID                string     `json:"user_id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	MobileNumber      string     `json:"mobile_number"`
	Address           string     `json:"address"`
	Password          string     `json:"password"`
	AvatarURL         string     `json:"avatar_url,omitempty"`
	RegisteredAt      time.Time  `json:"registered_at"`
	LastLogin         time.Time  `json:"last_login"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	PasswordUpdatedAt *time.Time `json:"password_updated_at,omitempty"`
}

// Session is the single active session for a store instance.
// AuthToken is opaque to callers; absence of the record means logged out.
type Session struct {
	LoggedIn    bool   `json:"logged_in"`
	CurrentUser User   `json:"current_user"`
	AuthToken   string `json:"auth_token"`
}

// PasswordReset is the single-slot OTP challenge created by forgot-password.
// A new request replaces any prior one; consumption or expiry deletes it.
type PasswordReset struct {
	OTP          string    `json:"otp"`
	TargetMobile string    `json:"target_mobile"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the challenge is past its validity window.
func (p PasswordReset) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// UserStats summarizes a user's order activity.
type UserStats struct {
	TotalOrders int       `json:"total_orders"`
	TotalSpent  float64   `json:"total_spent"`
	MemberSince time.Time `json:"member_since"`
}
