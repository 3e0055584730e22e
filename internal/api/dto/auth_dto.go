package dto

import "time"

// LoginRequest payload for staff username/password login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ClientLoginRequest payload for customer portal-token login.
type ClientLoginRequest struct {
	ClientToken string `json:"client_token"`
}

// SessionResponse wraps an issued token.
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
