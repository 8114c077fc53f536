package cmd

import (
	"fmt"
	"time"

	"course-planner/internal/config"
	domain "course-planner/internal/domain/projection"
	"course-planner/internal/infrastructure/cache"
	"course-planner/internal/infrastructure/database"
	"course-planner/internal/infrastructure/upstream"
	"course-planner/internal/service"
	"course-planner/pkg/logger"

	"gorm.io/gorm"
)

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(database.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.Username,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		Debug:    verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// openCache returns nil when the cache is disabled with cache.type=none
func openCache(cfg *config.Config) *cache.RedisCache {
	if cfg.Cache.Type == "none" {
		logger.Info("Cache disabled; upstream responses and save idempotency keys are not stored")
		return nil
	}
	addr := fmt.Sprintf("%s:%d", cfg.Cache.Host, cfg.Cache.Port)
	return cache.NewRedisCache(addr, cfg.Cache.Password, cfg.Cache.DB)
}

func newGateway(cfg *config.Config, backups domain.BackupRepository, c *cache.RedisCache) *upstream.Gateway {
	gatewayConfig := upstream.Config{
		RecordsBaseURL:    cfg.Upstream.RecordsBaseURL,
		CurriculumBaseURL: cfg.Upstream.CurriculumBaseURL,
		CurriculumAuth:    cfg.Upstream.CurriculumAuth,
		UseStubs:          cfg.Upstream.UseStubs,
		UseBackupFallback: cfg.Upstream.UseBackupFallback,
		Timeout:           time.Duration(cfg.Upstream.Timeout) * time.Second,
		RetryCount:        cfg.Upstream.RetryCount,
		RateLimit:         cfg.Upstream.RateLimit,
		RateBurst:         cfg.Upstream.RateBurst,
		CacheTTL:          time.Duration(cfg.Upstream.CacheTTL) * time.Second,
	}
	if c == nil {
		return upstream.NewGateway(gatewayConfig, backups, nil)
	}
	return upstream.NewGateway(gatewayConfig, backups, c)
}

func configuredCareers(cfg *config.Config) []service.CareerCatalog {
	careers := make([]service.CareerCatalog, 0, len(cfg.Backup.Careers))
	for _, c := range cfg.Backup.Careers {
		careers = append(careers, service.CareerCatalog{CareerCode: c.Code, Catalog: c.Catalog})
	}
	return careers
}
