package middleware

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/travelora/crm-backend/internal/tenant"
)

const resolvedTenantKey = "resolved_tenant"

// TenantResolver determines the candidate tenant from the request's
// routing hint before authentication runs: the Host header's domain, or
// an explicit X-Tenant-Domain override for development. A miss is fine;
// the authenticated user's own tenant then becomes authoritative.
func TenantResolver(tenants tenant.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		lookup := c.GetHeader("X-Tenant-Domain")
		if lookup == "" {
			host := c.Request.Host
			if i := strings.IndexByte(host, ':'); i >= 0 {
				host = host[:i]
			}
			lookup = host
		}

		if lookup != "" {
			t, err := tenants.FindByDomain(c.Request.Context(), strings.ToLower(lookup))
			if err != nil {
				log.Printf("tenant resolution failed for %q: %v", lookup, err)
			} else if t != nil {
				c.Set(resolvedTenantKey, t)
			}
		}
		c.Next()
	}
}

// ResolvedTenant returns the tenant matched from the routing hint, if
// any.
func ResolvedTenant(c *gin.Context) (*tenant.Tenant, bool) {
	v, exists := c.Get(resolvedTenantKey)
	if !exists {
		return nil, false
	}
	t, ok := v.(*tenant.Tenant)
	return t, ok
}
