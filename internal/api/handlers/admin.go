package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/api/middleware"
	"github.com/hablandodecaballos/backend/internal/core/ads"
	"github.com/hablandodecaballos/backend/internal/core/auth"
	"github.com/hablandodecaballos/backend/internal/core/moderation"
	"github.com/hablandodecaballos/backend/internal/listing"
)

type AdminHandler struct {
	authService *auth.Service
	modService  *moderation.Service
	adsService  *ads.Service
}

func NewAdminHandler(authService *auth.Service, modService *moderation.Service, adsService *ads.Service) *AdminHandler {
	return &AdminHandler{authService: authService, modService: modService, adsService: adsService}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	q := listing.ParseQuery(c.Request.URL.Query(), auth.UserResource)
	page, err := h.authService.ListUsers(c.Request.Context(), q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	h.setStatus(c, auth.StatusBanned, "user_banned")
}

func (h *AdminHandler) UnbanUser(c *gin.Context) {
	h.setStatus(c, auth.StatusActive, "user_unbanned")
}

func (h *AdminHandler) PromoteModerator(c *gin.Context) {
	h.setRole(c, auth.RoleModerator, "user_promoted")
}

func (h *AdminHandler) DemoteModerator(c *gin.Context) {
	h.setRole(c, auth.RoleMember, "user_demoted")
}

func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	q := listing.ParseQuery(c.Request.URL.Query(), moderation.AuditResource)
	page, err := h.modService.ListAudit(c.Request.Context(), q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ExpireAds sweeps ads past their expiry; triggered from the panel.
func (h *AdminHandler) ExpireAds(c *gin.Context) {
	n, err := h.adsService.ExpireStale(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	actorID, _ := middleware.GetUserID(c)
	h.modService.Audit(c.Request.Context(), &actorID, "ads_expired", "ad", "",
		middleware.GetIPAddress(c), middleware.GetUserAgent(c))
	c.JSON(http.StatusOK, gin.H{"expired": n})
}

func (h *AdminHandler) setStatus(c *gin.Context, status, auditAction string) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	user, err := h.authService.SetUserStatus(c.Request.Context(), userID, status)
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	h.modService.Audit(c.Request.Context(), &actorID, auditAction, "user",
		userID.String(), middleware.GetIPAddress(c), middleware.GetUserAgent(c))
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) setRole(c *gin.Context, role, auditAction string) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	user, err := h.authService.SetUserRole(c.Request.Context(), userID, role)
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	h.modService.Audit(c.Request.Context(), &actorID, auditAction, "user",
		userID.String(), middleware.GetIPAddress(c), middleware.GetUserAgent(c))
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) respondUserError(c *gin.Context, err error) {
	if err == auth.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuario no encontrado"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
