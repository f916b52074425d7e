package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/utils"
)

const (
	ContextEmployeeID = "employee_id"
	ContextRole       = "role"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization format")
			return
		}

		token, err := jwt.Parse(
			parts[1],
			func(token *jwt.Token) (interface{}, error) {
				return utils.JwtSecret(), nil
			},
		)

		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		id, ok := claims["employee_id"].(float64)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ContextEmployeeID, uint(id))
		c.Set(ContextRole, constants.Role(role))
		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...constants.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Role not found in context"})
			c.Abort()
			return
		}

		actorRole := role.(constants.Role)
		isAllowed := false
		for _, allowed := range allowedRoles {
			if actorRole == allowed {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not have permission to access this resource"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
	c.Abort()
}
