package uploads

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Colman1000/tongues-of-fire/internal/shared/storage/object/local"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(local.New(t.TempDir()))
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

type signedURLsResponse struct {
	URLs []signedURL `json:"urls"`
}

func TestSignedURLsPerFileOutcomes(t *testing.T) {
	router := newRouter(t)

	body := `{"files":["movie.srt","caption.vtt","notes.txt"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/signed-url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out signedURLsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.URLs) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out.URLs))
	}

	for _, u := range out.URLs[:2] {
		if u.Error != "" {
			t.Fatalf("unexpected error for %s: %s", u.FileName, u.Error)
		}
		if u.UploadURL == "" {
			t.Fatalf("expected upload url for %s", u.FileName)
		}
		if !strings.HasPrefix(u.Path, "uploads/translate/") {
			t.Fatalf("unexpected key %q", u.Path)
		}
	}
	if out.URLs[2].Error == "" {
		t.Fatal("expected error for unsupported extension")
	}
	if out.URLs[2].UploadURL != "" {
		t.Fatal("unsupported file must not get an upload url")
	}
}

func TestSignedURLsRequiresFiles(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/signed-url", strings.NewReader(`{"files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
