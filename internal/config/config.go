package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Log        LogConfig        `mapstructure:"log"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Projection ProjectionConfig `mapstructure:"projection"`
	Backup     BackupConfig     `mapstructure:"backup"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
	MaxHeaderBytes int      `mapstructure:"max_header_bytes"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Type     string `mapstructure:"type"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// UpstreamConfig describes the academic records and curriculum services
type UpstreamConfig struct {
	RecordsBaseURL    string  `mapstructure:"records_base_url"`
	CurriculumBaseURL string  `mapstructure:"curriculum_base_url"`
	CurriculumAuth    string  `mapstructure:"curriculum_auth"`
	UseStubs          bool    `mapstructure:"use_stubs"`
	UseBackupFallback bool    `mapstructure:"use_backup_fallback"`
	Timeout           int     `mapstructure:"timeout"`
	RetryCount        int     `mapstructure:"retry_count"`
	RateLimit         float64 `mapstructure:"rate_limit"`
	RateBurst         int     `mapstructure:"rate_burst"`
	CacheTTL          int     `mapstructure:"cache_ttl"`
}

// AdminConfig guards the data-loading endpoints
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// ProjectionConfig holds engine defaults
type ProjectionConfig struct {
	DefaultCreditCap float64 `mapstructure:"default_credit_cap"`
	MaxOptions       int     `mapstructure:"max_options"`
	IdempotencyTTL   int     `mapstructure:"idempotency_ttl"`
}

// BackupConfig controls the periodic upstream snapshot job
type BackupConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	Careers  []CareerEntry `mapstructure:"careers"`
}

// CareerEntry is one curriculum version to snapshot
type CareerEntry struct {
	Code    string `mapstructure:"code"`
	Catalog string `mapstructure:"catalog"`
}

var config *Config

// Init initializes the configuration
func Init() {
	config = &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// Get returns the global configuration
func Get() *Config {
	if config == nil {
		Init()
	}
	return config
}

func setDefaults() {
	viper.SetDefault("app.name", "course-planner")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 15)
	viper.SetDefault("server.write_timeout", 15)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.allowed_origins", []string{"*"})

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "course_planner")
	viper.SetDefault("database.ssl_mode", "disable")

	viper.SetDefault("cache.type", "redis")
	viper.SetDefault("cache.host", "localhost")
	viper.SetDefault("cache.port", 6379)
	viper.SetDefault("cache.password", "")
	viper.SetDefault("cache.db", 0)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file_path", "logs/course-planner.log")

	viper.SetDefault("upstream.records_base_url", "https://puclaro.ucn.cl/eross/avance")
	viper.SetDefault("upstream.curriculum_base_url", "https://losvilos.ucn.cl/hawaii/api")
	viper.SetDefault("upstream.curriculum_auth", "")
	viper.SetDefault("upstream.use_stubs", false)
	viper.SetDefault("upstream.use_backup_fallback", true)
	viper.SetDefault("upstream.timeout", 10)
	viper.SetDefault("upstream.retry_count", 2)
	viper.SetDefault("upstream.rate_limit", 10.0)
	viper.SetDefault("upstream.rate_burst", 5)
	viper.SetDefault("upstream.cache_ttl", 300)

	viper.SetDefault("admin.api_key", "")

	viper.SetDefault("projection.default_credit_cap", 22.0)
	viper.SetDefault("projection.max_options", 5)
	viper.SetDefault("projection.idempotency_ttl", 86400)

	viper.SetDefault("backup.enabled", false)
	viper.SetDefault("backup.schedule", "0 3 * * *")
}
