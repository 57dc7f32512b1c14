package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/api/middleware"
	"github.com/hablandodecaballos/backend/internal/core/forum"
	"github.com/hablandodecaballos/backend/internal/listing"
)

type ForumHandler struct {
	forumService *forum.Service
}

func NewForumHandler(forumService *forum.Service) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

func (h *ForumHandler) ListThreads(c *gin.Context) {
	q := listing.ParseQuery(c.Request.URL.Query(), forum.ThreadResource)
	page, err := h.forumService.ListThreads(c.Request.Context(), q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ForumHandler) GetThread(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	t, err := h.forumService.GetThread(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, forum.ErrThreadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hilo no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *ForumHandler) CreateThread(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req forum.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.forumService.CreateThread(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, forum.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "categoría inválida"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *ForumHandler) ListPosts(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	q := listing.ParseQuery(c.Request.URL.Query(), forum.PostResource)
	page, err := h.forumService.ListPosts(c.Request.Context(), threadID, q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ForumHandler) Reply(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	userID, _ := middleware.GetUserID(c)

	var req forum.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.forumService.Reply(c.Request.Context(), threadID, userID, &req)
	if err != nil {
		if errors.Is(err, forum.ErrThreadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hilo no encontrado"})
			return
		}
		if errors.Is(err, forum.ErrThreadLocked) {
			c.JSON(http.StatusConflict, gin.H{"error": "el hilo está cerrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

type threadFlagsRequest struct {
	Pinned bool `json:"pinned"`
	Locked bool `json:"locked"`
}

// SetThreadFlags pins/locks a thread; moderator-only route.
func (h *ForumHandler) SetThreadFlags(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var req threadFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.forumService.SetFlags(c.Request.Context(), threadID, req.Pinned, req.Locked); err != nil {
		if errors.Is(err, forum.ErrThreadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hilo no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
