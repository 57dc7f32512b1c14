package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hablandodecaballos/backend/internal/listing"
)

// respondListError maps composer failures onto HTTP statuses: permission
// problems are explicit rejections, anything else is a retryable server
// error. Empty pages are not errors and never reach here.
func respondListError(c *gin.Context, err error) {
	if errors.Is(err, listing.ErrPermissionDenied) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permiso denegado"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "error consultando el listado"})
}
