package dto

import "time"

// CoordinatorLoginRequest payload.
type CoordinatorLoginRequest struct {
	Password string `json:"password"`
}

// AuthResponse returns issued tokens.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
