package feed

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clipfeed/internal/metrics"
	"clipfeed/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/videos", h.GetFeed)
}

// GetFeed handles GET /api/videos?limit=<1..20>&cursor=<id>.
// Malformed query values fall back to defaults instead of erroring.
func (h *Handler) GetFeed(c *gin.Context) {
	limit := DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	var cursor *int64
	if raw := c.Query("cursor"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cursor = &id
		}
	}

	page, err := h.service.GetPage(c.Request.Context(), cursor, limit)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "failed to load feed")
		return
	}

	metrics.FeedPages.Inc()
	c.JSON(http.StatusOK, page)
}
