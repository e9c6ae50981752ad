package auth

import (
	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"password123"`
	FullName string `json:"full_name" binding:"required,max=120" example:"Jane Doe"`
	Phone    string `json:"phone,omitempty" example:"+15555550123"`
}

type LogoutRequest struct {
	RefreshToken          string `json:"refresh_token"`           // Optional: specific token to invalidate
	InvalidateAllSessions bool   `json:"invalidate_all_sessions"` // If true, invalidate all user's sessions
}

type AuthResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	User         user.UserResponse `json:"user"`
}

// SignUpInput is what every path that creates an account provides.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     common.Role
}
