package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-reviewer/internal/analyses"
	"resume-reviewer/internal/services/health"
	"resume-reviewer/internal/shared/config"
	"resume-reviewer/internal/shared/metrics"
	"resume-reviewer/internal/shared/server/middleware"
	"resume-reviewer/internal/shared/server/respond"
)

const analyzeRateGroup = "ANALYZE"

// Deps are the services the HTTP surface routes to.
type Deps struct {
	Analyses *analyses.Handler
	Health   *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analyses" {
					return analyzeRateGroup
				}
				return ""
			},
			Rules: map[string]middleware.RateLimitRule{
				analyzeRateGroup: {Rate: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, deps.Health.Status())
	})
	if deps.Analyses != nil {
		deps.Analyses.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "route not found", nil)
	})

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
