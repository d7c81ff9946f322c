package apperror

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is a stable, machine-readable error carried from services up to
// the request boundary. Code is what clients see; Status is the HTTP
// status it maps to. The message never leaks which internal check failed.
type Error struct {
	Code   string
	Status int
}

func (e *Error) Error() string { return e.Code }

var (
	ErrInvalidPayload     = &Error{Code: "invalid_payload", Status: http.StatusBadRequest}
	ErrInvalidCredentials = &Error{Code: "invalid_credentials", Status: http.StatusUnauthorized}
	ErrAccountLocked      = &Error{Code: "account_locked", Status: http.StatusForbidden}
	ErrInvalidRefresh     = &Error{Code: "invalid_refresh", Status: http.StatusUnauthorized}
	ErrInvalidToken       = &Error{Code: "invalid_token", Status: http.StatusBadRequest}
	ErrMissingToken       = &Error{Code: "missing_token", Status: http.StatusUnauthorized}
	ErrUnauthenticated    = &Error{Code: "unauthenticated", Status: http.StatusUnauthorized}
	ErrUserDisabled       = &Error{Code: "user_disabled", Status: http.StatusForbidden}
	ErrTenantMismatch     = &Error{Code: "tenant_mismatch", Status: http.StatusForbidden}
	ErrForbidden          = &Error{Code: "forbidden", Status: http.StatusForbidden}
	ErrNotFound           = &Error{Code: "not_found", Status: http.StatusNotFound}
	ErrWeakPassword       = &Error{Code: "weak_password", Status: http.StatusBadRequest}
	ErrEmailTaken         = &Error{Code: "email_taken", Status: http.StatusConflict}
	ErrInvalidTenant      = &Error{Code: "invalid_tenant", Status: http.StatusBadRequest}
)

// Respond translates err into a JSON error response. Anything that is not
// an *Error is a store/infrastructure failure: it is logged with full
// detail and reported to the client as an opaque internal error.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Code})
		return
	}
	log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
