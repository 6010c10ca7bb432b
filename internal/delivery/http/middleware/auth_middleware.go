package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"hr-portal-backend/config"
	"hr-portal-backend/internal/delivery/http/response"
	"hr-portal-backend/internal/domain"
	"hr-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware resolves the authenticated actor. The token only proves
// identity; the role is loaded fresh from the user store so a stale or
// tampered role claim can never widen permissions.
func AuthMiddleware(cfg *config.Config, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		var tokenString string

		// 1. Try to get token from Header
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			// 2. Try to get token from Cookie
			cookie, err := c.Cookie("auth_token")
			if err == nil && cookie != "" {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", string(apperror.KindAuthorization), nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			if cfg.JWTSecret == "" {
				return nil, fmt.Errorf("JWT_SECRET is not configured")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			response.Error(c, http.StatusUnauthorized, "Invalid token", string(apperror.KindAuthorization), nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", string(apperror.KindAuthorization), nil)
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)

		user, err := users.GetByID(c.Request.Context(), sub)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to resolve user", string(apperror.KindInternal), nil)
			c.Abort()
			return
		}
		if user == nil {
			response.Error(c, http.StatusUnauthorized, "User not found", string(apperror.KindAuthorization), nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), email)
		c.Set(string(domain.KeyUserRole), string(user.Role))

		c.Next()
	}
}
