package common

import (
	"errors"

	"github.com/gin-gonic/gin"
)

const (
	// Context keys
	ContextPrincipalKey = "principal"  // Principal resolved by the auth middleware
	ContextUserIDKey    = "userID"     // Key to store user ID in context
	ContextRequestIDKey = "request_id" // Set by the request logger
)

// Role is one of the three flat application roles.
type Role string

const (
	RolePlayer Role = "player"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePlayer, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role is coach or admin.
func (r Role) IsStaff() bool {
	return r == RoleCoach || r == RoleAdmin
}

// Principal is the authenticated caller for a single request. It is rebuilt
// from the users table on every request and never mutated afterwards.
type Principal struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

func (p Principal) IsStaff() bool { return p.Role.IsStaff() }
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// GetUserIDFromContext retrieves the authenticated user's ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userIDInterface, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		return 0, errors.New("user ID in context is not of type uint")
	}
	return userID, nil
}

// PrincipalFromContext retrieves the principal stored by the auth middleware.
func PrincipalFromContext(c *gin.Context) (Principal, error) {
	v, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return Principal{}, errors.New("principal not found in context")
	}
	p, ok := v.(Principal)
	if !ok {
		return Principal{}, errors.New("principal in context has unexpected type")
	}
	return p, nil
}
