package lead

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/travelora/crm-backend/internal/apperror"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type CreateLeadRequest struct {
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Source      string  `json:"source"`
	Status      string  `json:"status"`
	Score       int     `json:"score"`
	AssignedTo  string  `json:"assigned_to"`
	Destination string  `json:"destination"`
	TravelDates string  `json:"travel_dates"`
	Budget      float64 `json:"budget"`
	Adults      int     `json:"adults"`
	Children    int     `json:"children"`
	Notes       string  `json:"notes"`
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.ErrInvalidPayload)
		return
	}

	l, err := h.service.Create(c.Request.Context(), &Lead{
		Email:       req.Email,
		Phone:       req.Phone,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Source:      req.Source,
		Status:      req.Status,
		Score:       req.Score,
		AssignedTo:  req.AssignedTo,
		Destination: req.Destination,
		TravelDates: req.TravelDates,
		Budget:      req.Budget,
		Adults:      req.Adults,
		Children:    req.Children,
		Notes:       req.Notes,
	})
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{
		Status:     c.Query("status"),
		Source:     c.Query("source"),
		AssignedTo: c.Query("assigned_to"),
		Search:     c.Query("search"),
	}

	leads, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

func (h *Handler) Get(c *gin.Context) {
	l, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) Update(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		apperror.Respond(c, apperror.ErrInvalidPayload)
		return
	}

	l, err := h.service.Update(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
