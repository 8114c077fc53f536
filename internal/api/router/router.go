package router

import (
	"course-planner/internal/api/handlers"
	"course-planner/internal/api/middleware"
	interfaces "course-planner/internal/interfaces/infrastructure"
	serviceInterfaces "course-planner/internal/interfaces/service"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP API is built on
type Dependencies struct {
	ProjectionService serviceInterfaces.ProjectionService
	OfferService      serviceInterfaces.OfferService
	BackupService     serviceInterfaces.BackupService
	Gateway           interfaces.UpstreamGateway

	AdminKey       string
	AllowedOrigins []string
	Version        string
	HealthChecks   map[string]handlers.Pinger
}

func NewRouter(deps Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(gin.Recovery())

	projectionHandler := handlers.NewProjectionHandler(deps.ProjectionService)
	offerHandler := handlers.NewOfferHandler(deps.OfferService)
	backupHandler := handlers.NewBackupHandler(deps.BackupService)
	upstreamHandler := handlers.NewUpstreamHandler(deps.Gateway)
	healthHandler := handlers.NewHealthHandler(deps.Version, deps.HealthChecks)

	admin := middleware.AdminKey(deps.AdminKey)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)

	v1 := r.Group("/api/v1")
	{
		projections := v1.Group("/projections")
		{
			projections.POST("/generate", projectionHandler.Generate)
			projections.POST("/generate-with-offer", projectionHandler.GenerateWithOffer)
			projections.POST("/options", projectionHandler.Options)
			projections.POST("", middleware.IdempotencyMiddleware(), projectionHandler.Save)
			projections.POST("/direct", projectionHandler.SaveDirect)
			projections.GET("", projectionHandler.List)
			projections.PATCH("/:id/favorite", projectionHandler.SetFavorite)
			projections.PATCH("/:id/name", projectionHandler.Rename)
			projections.DELETE("/:id", projectionHandler.Delete)
			projections.GET("/demand", projectionHandler.Demand)
			projections.GET("/demand/export", projectionHandler.DemandExport)
		}

		offers := v1.Group("/offers")
		{
			offers.POST("", admin, offerHandler.Load)
			offers.GET("", offerHandler.List)
		}

		backups := v1.Group("/backups", admin)
		{
			backups.POST("/curriculum", backupHandler.LoadCurriculum)
			backups.GET("/curriculum/:career/:catalog", backupHandler.GetCurriculum)
			backups.POST("/history", backupHandler.LoadHistory)
			backups.GET("/history", backupHandler.GetHistory)
			backups.POST("/refresh", backupHandler.Refresh)
		}

		upstream := v1.Group("/upstream")
		{
			upstream.POST("/login", upstreamHandler.Login)
			upstream.GET("/curriculum/:career/:catalog", upstreamHandler.Curriculum)
			upstream.GET("/history", upstreamHandler.History)
		}
	}
	return r
}
