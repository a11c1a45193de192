package downloads

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Colman1000/tongues-of-fire/internal/jobs"
	"github.com/Colman1000/tongues-of-fire/internal/shared/server/middleware"
	"github.com/Colman1000/tongues-of-fire/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the downloads service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches download routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/download", h.download)
}

type downloadRequest struct {
	JobIDs []int64 `json:"jobIds"`
}

type downloadResponse struct {
	URL string `json:"url"`
}

func (h *Handler) download(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	url, err := h.Svc.Bundle(c.Request.Context(), middleware.ActorFromContext(c), req.JobIDs)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no matching jobs", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build download", nil)
		}
		return
	}

	respond.OK(c, downloadResponse{URL: url})
}
