package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/evpulse/internal/logger"
	"github.com/stwalsh4118/evpulse/internal/middleware"
	"github.com/stwalsh4118/evpulse/internal/services"
)

// RouterConfig holds what NewRouter wires together.
type RouterConfig struct {
	Service services.DashboardService
	Log     *logger.Logger
	// DB is pinged by the readiness probe. Leave nil when unused.
	DB      Pinger
	Origins []string
	Env     string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Middleware order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Log, "/health", "/health/ready"))
	router.Use(middleware.Recovery(cfg.Log))
	router.Use(middleware.CORS(cfg.Origins))

	healthHandler := NewHealthHandler(cfg.Service, cfg.DB, cfg.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)

	dashboardHandler := NewDashboardHandler(cfg.Service)
	filterHandler := NewFilterHandler(cfg.Service)
	datasetHandler := NewDatasetHandler(cfg.Service)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", healthHandler.Info)

		dataset := v1.Group("/dataset")
		{
			dataset.GET("", datasetHandler.Status)
			dataset.POST("/reload", datasetHandler.Reload)
			dataset.GET("/errors", datasetHandler.Errors)
		}

		v1.GET("/stats", dashboardHandler.Stats)
		v1.GET("/charts", dashboardHandler.Charts)
		v1.GET("/range-stats", dashboardHandler.RangeStats)
		v1.GET("/groups", dashboardHandler.Groups)
		v1.GET("/vehicles", dashboardHandler.Vehicles)
		v1.GET("/export", dashboardHandler.Export)

		filters := v1.Group("/filters")
		{
			filters.GET("", filterHandler.Get)
			filters.PATCH("", filterHandler.Update)
			filters.DELETE("", filterHandler.Reset)
			filters.GET("/options/:dimension", filterHandler.Options)
		}
	}

	return router
}
