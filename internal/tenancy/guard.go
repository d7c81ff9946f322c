// Package tenancy is the single chokepoint between repositories and the
// database for tenant-owned entities. Every filter a repository is about
// to hand to GORM goes through Scope first, which conjoins the active
// tenant predicate so a query can never silently span tenants while a
// tenant context is live.
package tenancy

import (
	"context"

	"github.com/travelora/crm-backend/internal/requestctx"
)

// Tenant-owned models. The set is closed and explicit; a model not
// listed here is never rewritten, so new tenant-scoped tables must be
// added deliberately.
const (
	ModelLead          = "leads"
	ModelCustomer      = "customers"
	ModelDeal          = "deals"
	ModelTravelPackage = "travel_packages"
	ModelBooking       = "bookings"
	ModelUser          = "users"
	ModelAuditEvent    = "audit_events"
)

var scopedModels = map[string]bool{
	ModelLead:          true,
	ModelCustomer:      true,
	ModelDeal:          true,
	ModelTravelPackage: true,
	ModelBooking:       true,
	ModelUser:          true,
	ModelAuditEvent:    true,
}

type exemptKey struct{}

// Exempt marks ctx so the guard passes filters through untouched even
// with a tenant in scope. Cross-tenant administrative code must opt in
// here, visibly at the call site, instead of relying on an empty
// context.
func Exempt(ctx context.Context) context.Context {
	return context.WithValue(ctx, exemptKey{}, true)
}

// IsExempt reports whether ctx carries the cross-tenant bypass marker.
func IsExempt(ctx context.Context) bool {
	v, _ := ctx.Value(exemptKey{}).(bool)
	return v
}

// Scope rewrites where so that it additionally constrains by the tenant
// in the current request scope. The caller's conditions are preserved
// unchanged; the tenant predicate is conjoined (logical AND).
//
// The filter comes back unmodified when:
//   - model is not in the tenant-owned allow-list,
//   - no tenant is present in the request scope (tenant-less background
//     work is responsible for its own filtering),
//   - ctx is marked Exempt, or
//   - the caller already names tenant_id explicitly (explicit intent
//     wins; used by cross-tenant admin lookups).
func Scope(ctx context.Context, model string, where map[string]interface{}) map[string]interface{} {
	if !scopedModels[model] || IsExempt(ctx) {
		return where
	}
	tenantID := requestctx.Current(ctx).TenantID
	if tenantID == "" {
		return where
	}
	if where == nil {
		return map[string]interface{}{"tenant_id": tenantID}
	}
	if _, ok := where["tenant_id"]; ok {
		return where
	}

	scoped := make(map[string]interface{}, len(where)+1)
	for k, v := range where {
		scoped[k] = v
	}
	scoped["tenant_id"] = tenantID
	return scoped
}

// TenantID returns the active tenant id, empty when none.
func TenantID(ctx context.Context) string {
	return requestctx.Current(ctx).TenantID
}
