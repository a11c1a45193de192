package audit

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Colman1000/tongues-of-fire/internal/shared/server/respond"
)

const maxPageSize = 100

// Handler wires HTTP handlers to the audit repo.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches audit routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit", h.list)
}

type listResponse struct {
	Events   []Event `json:"events"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Page:        parseIntDefault(c.Query("page"), 1),
		PageSize:    parseIntDefault(c.Query("pageSize"), 20),
		ActorSearch: strings.TrimSpace(c.Query("search")),
		SortBy:      c.DefaultQuery("sortBy", "createdAt"),
		SortOrder:   c.DefaultQuery("sortOrder", "desc"),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	if raw := strings.TrimSpace(c.Query("actions")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			action := Action(strings.TrimSpace(part))
			if action == "" {
				continue
			}
			if !ValidAction(action) {
				respond.Error(c, http.StatusBadRequest, "validation_error", "unknown action: "+string(action), nil)
				return
			}
			q.Actions = append(q.Actions, action)
		}
	}

	events, total, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list audit events", nil)
		return
	}

	respond.OK(c, listResponse{
		Events:   events,
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
