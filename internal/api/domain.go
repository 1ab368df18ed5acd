package api

import (
	"github.com/FACorreiaa/go-user-admin/internal/types"
)

// LoginRequest represents the expected JSON body for admin login.
type LoginRequest struct {
	Email    string `json:"email" example:"admin@example.com"` // Admin's email address for login.
	Password string `json:"password" example:"password123"`    // Admin's password.
}

// RegisterRequest represents the expected JSON body for admin registration.
type RegisterRequest struct {
	Name     string `json:"name" example:"Renz"`
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password" example:"password123"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message     string      `json:"message" example:"Login successful"`
	User        types.Admin `json:"user"`
	AccessToken string      `json:"accessToken" example:"eyJhbGciOiJI..."` // Short-lived JWT access token.
}

// RemoveResponse acknowledges a soft delete.
type RemoveResponse struct {
	Success bool   `json:"success" example:"true"`
	ID      string `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
}
