package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/api/middleware"
	"github.com/hablandodecaballos/backend/internal/core/moderation"
	"github.com/hablandodecaballos/backend/internal/listing"
)

type ModerationHandler struct {
	modService *moderation.Service
}

func NewModerationHandler(modService *moderation.Service) *ModerationHandler {
	return &ModerationHandler{modService: modService}
}

// CreateReport is open to any authenticated member.
func (h *ModerationHandler) CreateReport(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req moderation.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := h.modService.CreateReport(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, moderation.ErrInvalidTarget) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tipo de contenido inválido"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rep)
}

func (h *ModerationHandler) ListReports(c *gin.Context) {
	q := listing.ParseQuery(c.Request.URL.Query(), moderation.ReportResource)
	page, err := h.modService.ListReports(c.Request.Context(), q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ModerationHandler) Resolve(c *gin.Context) {
	h.close(c, moderation.ReportResolved)
}

func (h *ModerationHandler) Dismiss(c *gin.Context) {
	h.close(c, moderation.ReportDismissed)
}

func (h *ModerationHandler) close(c *gin.Context, status string) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	moderatorID, _ := middleware.GetUserID(c)

	rep, err := h.modService.Close(c.Request.Context(), reportID, moderatorID, status)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reporte no encontrado"})
		case errors.Is(err, moderation.ErrReportClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "el reporte ya está cerrado"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.modService.Audit(c.Request.Context(), &moderatorID, "report_"+status, "report",
		reportID.String(), middleware.GetIPAddress(c), middleware.GetUserAgent(c))
	c.JSON(http.StatusOK, rep)
}
