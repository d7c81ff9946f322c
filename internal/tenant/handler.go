package tenant

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/travelora/crm-backend/internal/apperror"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type ProvisionRequest struct {
	Name             string `json:"name" binding:"required"`
	Domain           string `json:"domain" binding:"required"`
	SubscriptionTier string `json:"subscription_tier"`
}

// Provision creates a new tenant. ADMIN only; tenants are never created
// from within another tenant's request flow.
func (h *Handler) Provision(c *gin.Context) {
	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.ErrInvalidPayload)
		return
	}

	t, err := h.service.Provision(c.Request.Context(), ProvisionInput{
		Name:             req.Name,
		Domain:           req.Domain,
		SubscriptionTier: req.SubscriptionTier,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) List(c *gin.Context) {
	tenants, err := h.service.List(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": tenants})
}
