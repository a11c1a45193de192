// Package uploads issues presigned upload URLs for subtitle files.
package uploads

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Colman1000/tongues-of-fire/internal/shared/server/respond"
	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/object"
	"github.com/Colman1000/tongues-of-fire/internal/shared/telemetry"
)

const (
	presignExpires = 15 * time.Minute
	uploadsPrefix  = "uploads/translate"
)

var contentTypes = map[string]string{
	".srt": "text/srt",
	".vtt": "text/vtt",
}

// Handler issues presigned upload URLs.
type Handler struct {
	Store object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(store object.ObjectStore) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/signed-url", h.signedURLs)
}

type signedURLRequest struct {
	Files []string `json:"files"`
}

type signedURL struct {
	FileName  string `json:"fileName"`
	UploadURL string `json:"uploadUrl,omitempty"`
	Path      string `json:"path,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) signedURLs(c *gin.Context) {
	var req signedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Files) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "files is required", nil)
		return
	}

	urls := make([]signedURL, 0, len(req.Files))
	for _, fileName := range req.Files {
		fileName = strings.TrimSpace(fileName)
		if fileName == "" {
			urls = append(urls, signedURL{FileName: fileName, Error: "file name is required"})
			continue
		}

		ext := strings.ToLower(path.Ext(fileName))
		contentType, ok := contentTypes[ext]
		if !ok {
			urls = append(urls, signedURL{FileName: fileName, Error: "only .srt and .vtt files are supported"})
			continue
		}

		key := path.Join(uploadsPrefix, uuid.NewString(), path.Base(fileName))
		url, err := h.Store.SignedUploadURL(c.Request.Context(), key, contentType, presignExpires)
		if err != nil {
			telemetry.Error("uploads.presign.failed", map[string]any{
				"err":        err.Error(),
				"key":        key,
				"request_id": c.GetString("requestId"),
			})
			urls = append(urls, signedURL{FileName: fileName, Error: "failed to generate upload url"})
			continue
		}

		urls = append(urls, signedURL{FileName: fileName, UploadURL: url, Path: key})
	}

	respond.OK(c, gin.H{"urls": urls})
}
