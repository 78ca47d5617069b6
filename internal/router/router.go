package router

import (
	"time"

	"github.com/romaxnova/dvf-api/internal/config"
	"github.com/romaxnova/dvf-api/internal/handler"
	"github.com/romaxnova/dvf-api/internal/middleware"
	"github.com/romaxnova/dvf-api/internal/repository"
	"github.com/romaxnova/dvf-api/internal/service"

	"github.com/gin-gonic/gin"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← Postgres | snapshot
func New(cfg *config.Config, repo repository.DVFRepository) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	dvfSvc := service.NewDVFService(repo, cfg.QueryMaxLimit)
	dvfH := handler.NewDVFHandler(dvfSvc)

	r.GET("/health", handler.Health(repo))

	api := r.Group("/api")
	{
		api.GET("/dvf", dvfH.List)
		api.GET("/dvf/grouped", dvfH.Grouped)
	}

	return r
}
