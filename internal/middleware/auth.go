package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	AuthUserIDKey = common.ContextUserIDKey
)

type principalRow struct {
	ID       uint
	Email    string
	FullName string
	Role     string
}

// AuthMiddleware validates the bearer token and rebuilds the caller's
// Principal from the users table, so role changes apply on the next request.
// Websocket clients may pass the token as ?access_token= instead.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := token.ValidateJWT(raw, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}

		var row principalRow
		err = db.WithContext(c.Request.Context()).Table("users").
			Select("id, email, full_name, role").
			Where("id = ?", claims.UserID).
			Take(&row).Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			return
		}

		c.Set(AuthUserIDKey, row.ID)
		c.Set(common.ContextPrincipalKey, common.Principal{
			UserID:   row.ID,
			Email:    row.Email,
			FullName: row.FullName,
			Role:     common.Role(row.Role),
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if q := c.Query("access_token"); q != "" {
			return q, nil
		}
		return "", errors.New("Authorization header is required")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("Invalid Authorization header format. Expected: Bearer <token>")
	}
	return parts[1], nil
}

// GetUserIDFromContext extracts the user ID from the context
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get(AuthUserIDKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}

	uid, ok := userID.(uint)
	if !ok {
		return 0, fmt.Errorf("user ID has unexpected type: %T", userID)
	}

	return uid, nil
}
