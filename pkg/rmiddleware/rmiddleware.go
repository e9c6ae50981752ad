package rmiddleware

import (
	"fmt"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/gin-gonic/gin"
)

// RoleMiddleware admits callers whose global role is one of requiredRoles.
// It must run after middleware.AuthMiddleware.
func RoleMiddleware(requiredRoles ...common.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := common.PrincipalFromContext(c)
		if err != nil {
			responses.Unauthorized(c, "Unauthorized: "+err.Error())
			return
		}

		for _, r := range requiredRoles {
			if p.Role == r {
				c.Next()
				return
			}
		}

		responses.Forbidden(c, fmt.Sprintf("role %q cannot access this resource, requires one of %v", p.Role, requiredRoles))
	}
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(common.RoleAdmin)
}

// CoachOrAdminMiddleware is a convenience middleware for coach or admin access
func CoachOrAdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(common.RoleCoach, common.RoleAdmin)
}
