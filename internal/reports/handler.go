package reports

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/travelora/crm-backend/internal/apperror"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Export streams the rendered report as a file download.
// GET /reports/export?type=leads&format=csv
func (h *Handler) Export(c *gin.Context) {
	reportType := c.Query("type")
	format := c.DefaultQuery("format", FormatCSV)

	payload, filename, contentType, err := h.service.Export(c.Request.Context(), reportType, format)
	if err != nil {
		apperror.Respond(c, apperror.ErrInvalidPayload)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, payload)
}
