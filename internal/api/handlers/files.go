package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/hablandodecaballos/backend/internal/storage/objectstore"
)

type FilesHandler struct {
	store *objectstore.Store
}

func NewFilesHandler(store *objectstore.Store) *FilesHandler {
	return &FilesHandler{store: store}
}

// Download serves an object addressed by a signed token. The token alone
// grants access, so no auth middleware runs on this route.
func (h *FilesHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token requerido"})
		return
	}

	key, err := h.store.Verify(token)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "enlace inválido o expirado"})
		return
	}

	f, err := h.store.Open(key)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "archivo no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "private, max-age=300")
	c.Status(http.StatusOK)
	io.Copy(c.Writer, f)
}
