// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Archive    ArchiveConfig
	Analysis   AnalysisConfig
	Thresholds ThresholdsConfig
}

type ServerConfig struct {
	Port           string
	OpsPort        string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	BriefTTL      int // seconds
}

// ArchiveConfig points at the S3-compatible bucket where generated briefs
// are archived. Archiving is best-effort and off by default.
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type AnalysisConfig struct {
	WindowDays int // sales window the velocity metrics cover
}

// ThresholdsConfig carries every classifier constant so rule behavior is
// tunable from the environment without code changes.
type ThresholdsConfig struct {
	HighVelocity        float64
	LowVelocity         float64
	LowStockDays        int
	CriticalStockDays   int
	HighMarginPercent   float64
	MinStockForDiscount float64
	SlowMoverDays       int
	ImpactWindowDays    int
	MaxBriefActions     int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_OPS_PORT", "8081")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "shelfbrief")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_BRIEF_TTL_SECONDS", 300)
		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "shelfbrief-archive")
		viper.SetDefault("ARCHIVE_REGION", "us-east-1")
		viper.SetDefault("ARCHIVE_USE_SSL", true)
		viper.SetDefault("ANALYSIS_WINDOW_DAYS", 30)
		viper.SetDefault("BRIEF_HIGH_VELOCITY", 0.5)
		viper.SetDefault("BRIEF_LOW_VELOCITY", 0.1)
		viper.SetDefault("BRIEF_LOW_STOCK_DAYS", 10)
		viper.SetDefault("BRIEF_CRITICAL_STOCK_DAYS", 5)
		viper.SetDefault("BRIEF_HIGH_MARGIN_PERCENT", 50)
		viper.SetDefault("BRIEF_MIN_STOCK_FOR_DISCOUNT", 5)
		viper.SetDefault("BRIEF_SLOW_MOVER_DAYS", 14)
		viper.SetDefault("BRIEF_IMPACT_WINDOW_DAYS", 7)
		viper.SetDefault("BRIEF_MAX_ACTIONS", 3)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				OpsPort:        viper.GetString("SERVER_OPS_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				BriefTTL:      viper.GetInt("CACHE_BRIEF_TTL_SECONDS"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				Region:    viper.GetString("ARCHIVE_REGION"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
			Analysis: AnalysisConfig{
				WindowDays: viper.GetInt("ANALYSIS_WINDOW_DAYS"),
			},
			Thresholds: ThresholdsConfig{
				HighVelocity:        viper.GetFloat64("BRIEF_HIGH_VELOCITY"),
				LowVelocity:         viper.GetFloat64("BRIEF_LOW_VELOCITY"),
				LowStockDays:        viper.GetInt("BRIEF_LOW_STOCK_DAYS"),
				CriticalStockDays:   viper.GetInt("BRIEF_CRITICAL_STOCK_DAYS"),
				HighMarginPercent:   viper.GetFloat64("BRIEF_HIGH_MARGIN_PERCENT"),
				MinStockForDiscount: viper.GetFloat64("BRIEF_MIN_STOCK_FOR_DISCOUNT"),
				SlowMoverDays:       viper.GetInt("BRIEF_SLOW_MOVER_DAYS"),
				ImpactWindowDays:    viper.GetInt("BRIEF_IMPACT_WINDOW_DAYS"),
				MaxBriefActions:     viper.GetInt("BRIEF_MAX_ACTIONS"),
			},
		}
	})

	return instance
}
