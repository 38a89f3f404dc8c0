package ingest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clipfeed/internal/metrics"
	"clipfeed/internal/modules/feed"
	"clipfeed/internal/modules/stats"
	"clipfeed/internal/pkg/response"
	"clipfeed/internal/repository"
)

type Handler struct {
	service    *Service
	staticBase string
	hub        *stats.Hub
}

func NewHandler(service *Service, staticBase string, hub *stats.Hub) *Handler {
	return &Handler{service: service, staticBase: staticBase, hub: hub}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/upload", h.Upload)
}

// multipartOverhead leaves room for the title field and part framing on
// top of the file payload itself.
const multipartOverhead = 1 << 20

// Upload handles POST /api/upload (multipart: title field + video file).
func (h *Handler) Upload(c *gin.Context) {
	// Cap the request body before multipart parsing so an oversized
	// upload is cut off mid-stream instead of being buffered in full
	// and rejected after the fact.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body,
		h.service.MaxBytes()+multipartOverhead)

	fileHeader, fileErr := c.FormFile("video")
	if fileErr != nil {
		var maxErr *http.MaxBytesError
		if errors.As(fileErr, &maxErr) {
			metrics.UploadsRejected.Inc()
			response.Error(c, http.StatusRequestEntityTooLarge, ErrPayloadTooLarge.Error())
			return
		}
	}

	up := Upload{Title: c.PostForm("title")}
	if fileErr == nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			_ = c.Error(openErr)
			response.Error(c, http.StatusInternalServerError, "upload failed")
			return
		}
		defer file.Close()

		up.OriginalName = fileHeader.Filename
		up.ContentType = fileHeader.Header.Get("Content-Type")
		up.Size = fileHeader.Size
		up.Body = file
	}

	video, err := h.service.Ingest(c.Request.Context(), up)
	if err != nil {
		switch {
		case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrFileRequired),
			errors.Is(err, repository.ErrValidation):
			metrics.UploadsRejected.Inc()
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrUnsupportedMedia):
			metrics.UploadsRejected.Inc()
			response.Error(c, http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, ErrPayloadTooLarge):
			metrics.UploadsRejected.Inc()
			response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	card := feed.NewVideoCard(*video, h.staticBase)
	metrics.UploadsAccepted.Inc()
	h.hub.Broadcast(&stats.Event{Type: stats.EventVideoUploaded, Payload: card})

	c.JSON(http.StatusCreated, card)
}
