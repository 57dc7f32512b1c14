package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/api/middleware"
	"github.com/hablandodecaballos/backend/internal/core/ads"
	"github.com/hablandodecaballos/backend/internal/core/validation"
	"github.com/hablandodecaballos/backend/internal/listing"
)

type AdsHandler struct {
	adsService *ads.Service
}

func NewAdsHandler(adsService *ads.Service) *AdsHandler {
	return &AdsHandler{adsService: adsService}
}

func (h *AdsHandler) List(c *gin.Context) {
	q := listing.ParseQuery(c.Request.URL.Query(), ads.AdResource)
	page, err := h.adsService.List(c.Request.Context(), q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AdsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	ad, err := h.adsService.Get(c.Request.Context(), id, middleware.ViewerFrom(c))
	if err != nil {
		if errors.Is(err, ads.ErrAdNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "anuncio no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ad)
}

func (h *AdsHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req ads.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad, err := h.adsService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ads.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "categoría inválida"})
			return
		}
		if validation.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "atributos inválidos",
				"details": validation.GetValidationErrors(err),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ad)
}

type adStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=activo vendido expirado pausado"`
}

func (h *AdsHandler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req adStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad, err := h.adsService.SetStatus(c.Request.Context(), id, userID, privileged(c), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ads.ErrAdNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "anuncio no encontrado"})
		case errors.Is(err, ads.ErrNotAdOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "permiso denegado"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, ad)
}
