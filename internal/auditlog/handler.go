package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/travelora/crm-backend/internal/apperror"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// List returns the tenant's audit trail, newest first. Admin only; the
// route group enforces the role.
func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{
		UserID: c.Query("user_id"),
		Action: c.Query("action"),
	}
	if v := c.Query("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apperror.Respond(c, apperror.ErrInvalidPayload)
			return
		}
		filter.Since = &t
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			apperror.Respond(c, apperror.ErrInvalidPayload)
			return
		}
		filter.Limit = n
	}

	events, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
