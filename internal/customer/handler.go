package customer

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/travelora/crm-backend/internal/apperror"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type CreateCustomerRequest struct {
	LeadID       string  `json:"lead_id"`
	CustomerType string  `json:"customer_type"`
	LoyaltyLevel string  `json:"loyalty_level"`
	TotalSpent   float64 `json:"total_spent"`
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.ErrInvalidPayload)
		return
	}

	cust, err := h.service.Create(c.Request.Context(), &Customer{
		LeadID:       req.LeadID,
		CustomerType: req.CustomerType,
		LoyaltyLevel: req.LoyaltyLevel,
		TotalSpent:   req.TotalSpent,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

func (h *Handler) ConvertLead(c *gin.Context) {
	cust, err := h.service.ConvertLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

func (h *Handler) List(c *gin.Context) {
	customers, err := h.service.List(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *Handler) Get(c *gin.Context) {
	cust, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *Handler) Update(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		apperror.Respond(c, apperror.ErrInvalidPayload)
		return
	}

	cust, err := h.service.Update(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
