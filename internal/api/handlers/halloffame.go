package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/api/middleware"
	"github.com/hablandodecaballos/backend/internal/core/halloffame"
	"github.com/hablandodecaballos/backend/internal/listing"
)

type HallOfFameHandler struct {
	hofService *halloffame.Service
}

func NewHallOfFameHandler(hofService *halloffame.Service) *HallOfFameHandler {
	return &HallOfFameHandler{hofService: hofService}
}

func (h *HallOfFameHandler) List(c *gin.Context) {
	q := listing.ParseQuery(c.Request.URL.Query(), halloffame.HorseResource)
	page, err := h.hofService.List(c.Request.Context(), q, middleware.ViewerFrom(c))
	if err != nil {
		respondListError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *HallOfFameHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	horse, err := h.hofService.GetHorse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, halloffame.ErrHorseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "caballo no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, horse)
}

func (h *HallOfFameHandler) Nominate(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req halloffame.NominateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	horse, err := h.hofService.Nominate(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, horse)
}

func (h *HallOfFameHandler) Vote(c *gin.Context) {
	horseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	userID, _ := middleware.GetUserID(c)

	horse, err := h.hofService.Vote(c.Request.Context(), horseID, userID)
	if err != nil {
		if errors.Is(err, halloffame.ErrHorseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "caballo no encontrado"})
			return
		}
		if errors.Is(err, halloffame.ErrAlreadyVoted) {
			c.JSON(http.StatusConflict, gin.H{"error": "ya has votado por este caballo"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, horse)
}
