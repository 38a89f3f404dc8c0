package like

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clipfeed/internal/metrics"
	"clipfeed/internal/modules/stats"
	"clipfeed/internal/pkg/response"
	"clipfeed/internal/repository"
)

type Handler struct {
	service *Service
	hub     *stats.Hub
}

func NewHandler(service *Service, hub *stats.Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/videos/:id/like", h.Like)
}

// Like handles POST /api/videos/:id/like.
func (h *Handler) Like(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid video id")
		return
	}

	likes, err := h.service.Like(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			response.Error(c, http.StatusNotFound, "video not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "like failed")
		return
	}

	metrics.Likes.Inc()
	h.hub.Broadcast(&stats.Event{
		Type:    stats.EventVideoLiked,
		Payload: gin.H{"id": id, "likes": likes},
	})

	c.JSON(http.StatusOK, gin.H{"id": id, "likes": likes})
}
