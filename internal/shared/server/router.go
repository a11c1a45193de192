package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Colman1000/tongues-of-fire/internal/audit"
	"github.com/Colman1000/tongues-of-fire/internal/credits"
	"github.com/Colman1000/tongues-of-fire/internal/downloads"
	"github.com/Colman1000/tongues-of-fire/internal/jobs"
	"github.com/Colman1000/tongues-of-fire/internal/shared/config"
	"github.com/Colman1000/tongues-of-fire/internal/shared/server/middleware"
	"github.com/Colman1000/tongues-of-fire/internal/shared/server/respond"
	"github.com/Colman1000/tongues-of-fire/internal/uploads"
)

// Deps holds the handlers the router mounts.
type Deps struct {
	Config    config.Config
	Jobs      *jobs.Handler
	Uploads   *uploads.Handler
	Downloads *downloads.Handler
	Credits   *credits.Handler
	Audit     *audit.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Actor(),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	protected := api.Group("")
	protected.Use(middleware.RequireToken(deps.Config.APIToken))

	deps.Jobs.RegisterRoutes(protected)
	deps.Uploads.RegisterRoutes(protected)
	deps.Downloads.RegisterRoutes(protected)
	deps.Audit.RegisterRoutes(protected)
	deps.Credits.RegisterRoutes(protected)
	// The recharge endpoint carries its own token.
	deps.Credits.RegisterAdminRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
