package middleware

import (
	"errors"
	"strings"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/app/repository"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/ctoapp/cto-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for the authenticated user.
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

type AuthMiddleware struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

func NewAuthMiddleware(userRepo repository.UserRepository, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Authorize validates the bearer token and loads its account. Sessions
// minted before the account's last password change are rejected, which is
// how a reset revokes every outstanding token.
func (m *AuthMiddleware) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperrors.AbortWithError(c, apperrors.Unauthorized("Authentication required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.AbortWithError(c, apperrors.Unauthorized("Invalid authorization header"))
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.AbortWithError(c, apperrors.Unauthorized("Session expired"))
			} else {
				apperrors.AbortWithError(c, apperrors.Unauthorized("Invalid token"))
			}
			return
		}

		user, err := m.userRepo.FindByID(claims.UserID)
		if err != nil {
			apperrors.AbortWithError(c, apperrors.Unauthorized("Account no longer exists"))
			return
		}
		if !user.AccountConfirmed {
			apperrors.AbortWithError(c, apperrors.Unauthorized("Account not confirmed"))
			return
		}
		if claims.IssuedAt != nil && user.PasswordChangedAfter(claims.IssuedAt.Time) {
			log.Warn("Token predates password change", map[string]interface{}{
				"user_id": user.ID,
			})
			apperrors.AbortWithError(c, apperrors.Unauthorized("Password was changed, please log in again"))
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserEmailKey, user.Email)
		roleNumber := model.RoleUser
		if user.Role != nil {
			roleNumber = user.Role.Number
		}
		c.Set(UserRoleKey, roleNumber)

		c.Next()
	}
}

// Protect allows only the given role numbers through. Must run after
// Authorize.
func (m *AuthMiddleware) Protect(roleNumbers ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			apperrors.AbortWithError(c, apperrors.Forbidden("Role information not found"))
			return
		}

		for _, r := range roleNumbers {
			if role == r {
				c.Next()
				return
			}
		}

		userID, _ := GetUserID(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        userID,
			"user_role":      role,
			"required_roles": roleNumbers,
			"path":           c.Request.URL.Path,
		})
		apperrors.AbortWithError(c, apperrors.Forbidden("You do not have permission to perform this action"))
	}
}

// GetUserID extracts the authenticated user id from context.
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserEmail extracts the authenticated email from context.
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetUserRole extracts the authenticated role number from context.
func GetUserRole(c *gin.Context) (int, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return 0, false
	}
	return role.(int), true
}
