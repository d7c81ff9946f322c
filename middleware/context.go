package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/travelora/crm-backend/internal/requestctx"
)

// RequestScope installs a fresh, empty request context scope before
// anything else runs. Every downstream read of the current tenant goes
// through this scope, so it must be the first middleware in the chain.
func RequestScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(requestctx.Scope(c.Request.Context()))
		c.Next()
	}
}
