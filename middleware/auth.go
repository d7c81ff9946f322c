package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/travelora/crm-backend/config"
	"github.com/travelora/crm-backend/internal/auth"
	"github.com/travelora/crm-backend/internal/requestctx"
)

// AuthMiddleware validates the bearer access token, loads the user,
// cross-checks the resolved tenant and fills the request scope with the
// authenticated identity. It never touches lockout counters; those
// belong to the login flow.
func AuthMiddleware(cfg *config.Config, authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.JWTAccessSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		user, err := authSvc.GetUserByID(c.Request.Context(), sub)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user_disabled"})
			return
		}

		// A valid token for tenant A must not be replayable against
		// tenant B's routing domain.
		if resolved, ok := ResolvedTenant(c); ok && resolved.ID != user.TenantID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "tenant_mismatch"})
			return
		}

		requestctx.Update(c.Request.Context(), requestctx.Context{
			TenantID: user.TenantID,
			UserID:   user.ID,
		})

		c.Set("user", user)
		c.Set("claims", claims)
		if imp, ok := claims["impersonator"].(string); ok && imp != "" {
			c.Set("impersonator", imp)
		}

		c.Next()
	}
}
