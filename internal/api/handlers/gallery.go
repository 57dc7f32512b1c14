package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/api/middleware"
	"github.com/hablandodecaballos/backend/internal/core/gallery"
	"github.com/hablandodecaballos/backend/internal/listing"
)

// Media uploads above this size are rejected before buffering.
const maxUploadBytes = 20 << 20

type GalleryHandler struct {
	galleryService *gallery.Service
}

func NewGalleryHandler(galleryService *gallery.Service) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

func (h *GalleryHandler) ListAlbums(c *gin.Context) {
	q := listing.ParseQuery(c.Request.URL.Query(), gallery.AlbumResource)
	page, err := h.galleryService.ListAlbums(c.Request.Context(), q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *GalleryHandler) CreateAlbum(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req gallery.CreateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.galleryService.CreateAlbum(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *GalleryHandler) GetAlbum(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	a, err := h.galleryService.GetAlbum(c.Request.Context(), id, middleware.ViewerFrom(c))
	if err != nil {
		if errors.Is(err, gallery.ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "álbum no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *GalleryHandler) ListMedia(c *gin.Context) {
	albumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	q := listing.ParseQuery(c.Request.URL.Query(), gallery.MediaResource)
	page, err := h.galleryService.ListMedia(c.Request.Context(), albumID, q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *GalleryHandler) Upload(c *gin.Context) {
	albumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	userID, _ := middleware.GetUserID(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "archivo requerido"})
		return
	}
	defer file.Close()

	m, err := h.galleryService.Upload(c.Request.Context(), albumID, userID,
		header.Filename, header.Header.Get("Content-Type"), c.PostForm("caption"), file)
	if err != nil {
		switch {
		case errors.Is(err, gallery.ErrAlbumNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "álbum no encontrado"})
		case errors.Is(err, gallery.ErrNotAlbumOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "permiso denegado"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, m)
}
