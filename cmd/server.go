package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-planner/internal/api/handlers"
	"course-planner/internal/api/router"
	"course-planner/internal/config"
	"course-planner/internal/infrastructure/database"
	"course-planner/internal/infrastructure/repository"
	"course-planner/internal/service"
	"course-planner/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	port        string
	autoMigrate bool
)

// serverCmd represents the serve command
var serverCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the HTTP API",
	Long: `Start the HTTP API serving projections, the timetable offer,
backup snapshots and the upstream proxies. When backup.enabled is set the
configured curricula are snapshotted on backup.schedule.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVarP(&port, "port", "p", "", "Port for the server to listen on (overrides server.port)")
	serverCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Apply pending migrations before serving")
}

func startServer() {
	cfg := config.Get()

	if port != "" {
		cfg.Server.Port = port
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("%v", err)
	}
	if autoMigrate {
		if err := database.RunMigrations(db); err != nil {
			logger.Fatal("Migration failed: %v", err)
		}
	}

	projectionRepo := repository.NewProjectionRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	backupRepo := repository.NewBackupRepository(db)
	demandRepo, err := repository.NewDemandRepository(db)
	if err != nil {
		logger.Fatal("Failed to create demand repository: %v", err)
	}

	healthChecks := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error { return database.HealthCheck(db) },
	}

	redisCache := openCache(cfg)
	var idempotency *service.IdempotencyService
	if redisCache != nil {
		defer redisCache.Close()
		healthChecks["cache"] = redisCache.Health
		ttl := time.Duration(cfg.Projection.IdempotencyTTL) * time.Second
		idempotency = service.NewIdempotencyService(repository.NewRedisIdempotencyRepository(redisCache.Client(), ttl), ttl)
	}

	gateway := newGateway(cfg, backupRepo, redisCache)

	projectionService := service.NewProjectionService(
		gateway,
		projectionRepo,
		demandRepo,
		offerRepo,
		idempotency,
		cfg.Projection.DefaultCreditCap,
		cfg.Projection.MaxOptions,
	)
	backupService := service.NewBackupService(backupRepo, newGateway(cfg, nil, nil), configuredCareers(cfg))

	if cfg.Backup.Enabled {
		scheduler, err := service.NewBackupScheduler(backupService, cfg.Backup.Schedule, 0)
		if err != nil {
			logger.Fatal("Failed to schedule backups: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("Backup refresh scheduled (%s) for %d careers", cfg.Backup.Schedule, len(cfg.Backup.Careers))
	}

	if cfg.Admin.APIKey == "" {
		logger.Warn("admin.api_key is not set; admin endpoints will reject every request")
	}

	r := router.NewRouter(router.Dependencies{
		ProjectionService: projectionService,
		OfferService:      service.NewOfferService(offerRepo),
		BackupService:     backupService,
		Gateway:           gateway,
		AdminKey:          cfg.Admin.APIKey,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		Version:           cfg.App.Version,
		HealthChecks:      healthChecks,
	})

	srv := &http.Server{
		Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:        r,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
