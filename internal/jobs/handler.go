package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Colman1000/tongues-of-fire/internal/shared/server/middleware"
	"github.com/Colman1000/tongues-of-fire/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the jobs service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/process", h.process)
	rg.GET("/jobs/:id", h.get)
	rg.PATCH("/jobs/append-languages", h.appendLanguages)
	rg.DELETE("/jobs", h.delete)
	rg.GET("/report", h.report)
}

type processFile struct {
	FileName string `json:"fileName"`
	Path     string `json:"path"`
}

type processRequest struct {
	Languages []string      `json:"languages"`
	Files     []processFile `json:"files"`
}

func (h *Handler) process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Files) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "files is required", nil)
		return
	}
	for _, f := range req.Files {
		if f.FileName == "" || f.Path == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "each file needs fileName and path", nil)
			return
		}
	}

	files := make([]IngestFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, IngestFile{Name: f.FileName, Path: f.Path})
	}

	results, err := h.Svc.Ingest(c.Request.Context(), middleware.ActorFromContext(c), req.Languages, files)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to ingest files", nil)
		return
	}

	respond.JSON(c, http.StatusAccepted, gin.H{"results": results})
}

type fileResponse struct {
	Language        string  `json:"language"`
	Path            string  `json:"path"`
	DurationSeconds int     `json:"durationSeconds"`
	CreditsUsed     float64 `json:"creditsUsed"`
}

type jobResponse struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Status           Status         `json:"status"`
	TargetLanguages  []string       `json:"targetLanguages"`
	Files            []fileResponse `json:"files"`
	TotalCreditsUsed float64        `json:"totalCreditsUsed"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid job id", nil)
		return
	}
	c.Set("jobId", id)

	detail, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load job", nil)
		return
	}

	files := make([]fileResponse, 0, len(detail.Files))
	for _, f := range detail.Files {
		files = append(files, fileResponse{
			Language:        f.Language,
			Path:            f.Path,
			DurationSeconds: f.DurationSeconds,
			CreditsUsed:     f.CreditsUsed,
		})
	}

	respond.OK(c, jobResponse{
		ID:               detail.Job.ID,
		Name:             detail.Job.Name,
		Status:           detail.Job.Status,
		TargetLanguages:  detail.Job.TargetLanguages,
		Files:            files,
		TotalCreditsUsed: detail.TotalCreditsUsed,
		CompletedAt:      detail.Job.CompletedAt,
		CreatedAt:        detail.Job.CreatedAt,
		UpdatedAt:        detail.Job.UpdatedAt,
	})
}

type appendRequest struct {
	JobIDs    []int64  `json:"jobIds"`
	Languages []string `json:"languages"`
}

func (h *Handler) appendLanguages(c *gin.Context) {
	var req appendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	results, err := h.Svc.AppendLanguages(c.Request.Context(), middleware.ActorFromContext(c), req.JobIDs, req.Languages)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to append languages", nil)
		return
	}

	respond.OK(c, gin.H{"results": results})
}

type deleteRequest struct {
	JobIDs []int64 `json:"jobIds"`
}

func (h *Handler) delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Delete(c.Request.Context(), middleware.ActorFromContext(c), req.JobIDs)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete jobs", nil)
		return
	}

	respond.OK(c, result)
}

func (h *Handler) report(c *gin.Context) {
	report, err := h.Svc.BuildReport(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build report", nil)
		return
	}
	respond.OK(c, report)
}
