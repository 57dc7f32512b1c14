package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/api/middleware"
	"github.com/hablandodecaballos/backend/internal/core/auth"
	"github.com/hablandodecaballos/backend/internal/core/news"
	"github.com/hablandodecaballos/backend/internal/listing"
)

type NewsHandler struct {
	newsService *news.Service
}

func NewNewsHandler(newsService *news.Service) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

func (h *NewsHandler) List(c *gin.Context) {
	q := listing.ParseQuery(c.Request.URL.Query(), news.ArticleResource)
	page, err := h.newsService.List(c.Request.Context(), q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *NewsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	a, err := h.newsService.Get(c.Request.Context(), id, middleware.ViewerFrom(c))
	if err != nil {
		if errors.Is(err, news.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "artículo no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *NewsHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req news.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.newsService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *NewsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req news.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.newsService.Update(c.Request.Context(), id, userID, privileged(c), &req)
	if err != nil {
		respondNewsError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *NewsHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	userID, _ := middleware.GetUserID(c)

	a, err := h.newsService.Publish(c.Request.Context(), id, userID, privileged(c))
	if err != nil {
		respondNewsError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *NewsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	userID, _ := middleware.GetUserID(c)

	if err := h.newsService.Delete(c.Request.Context(), id, userID, privileged(c)); err != nil {
		respondNewsError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondNewsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, news.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "artículo no encontrado"})
	case errors.Is(err, news.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "permiso denegado"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func privileged(c *gin.Context) bool {
	role := middleware.GetUserRole(c)
	return role == auth.RoleAdmin || role == auth.RoleModerator
}
