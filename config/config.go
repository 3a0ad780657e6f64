package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Dataset DatasetConfig
	Scoring ScoringConfig
	Redis   RedisConfig
	App     AppConfig
}

type ServerConfig struct {
	Port           string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type DatasetConfig struct {
	Path  string
	Sheet string
	// ResilienceLevels restricts the per-dimension tabs, e.g. Yes,No.
	ResilienceLevels []string
}

type ScoringConfig struct {
	Mode    domain.ScoreMode
	Domains []domain.DomainCode
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	ScoreTTL time.Duration
	// WarmSchedule is a cron spec; empty disables warming.
	WarmSchedule string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"*"}),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 20),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Dataset: DatasetConfig{
			Path:             getEnv("DATASET_PATH", "data/cleaned_data_cyber_binary.xlsx"),
			Sheet:            getEnv("DATASET_SHEET", ""),
			ResilienceLevels: getEnvAsList("RESILIENCE_LEVELS", []string{"Yes", "No"}),
		},
		Scoring: ScoringConfig{
			Mode: domain.ScoreMode(getEnv("SCORE_MODE", string(domain.ScoreYesPercentage))),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", ""),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			ScoreTTL:     time.Duration(getEnvAsInt("SCORE_CACHE_TTL_SECONDS", 1800)) * time.Second,
			WarmSchedule: getEnv("WARM_SCHEDULE", "@every 15m"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	domains, err := domain.CanonicalCatalog().ParseCodes(getEnv("DOMAINS", ""))
	if err != nil {
		return nil, fmt.Errorf("DOMAINS: %w", err)
	}
	cfg.Scoring.Domains = domains
	if len(cfg.Scoring.Domains) == 0 {
		cfg.Scoring.Domains = domain.CanonicalDomains()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Dataset.Path == "" {
		return fmt.Errorf("DATASET_PATH is required")
	}

	if !c.Scoring.Mode.Valid() {
		return fmt.Errorf("SCORE_MODE must be %q or %q, got %q",
			domain.ScoreYesPercentage, domain.ScoreMeanOfMeans, c.Scoring.Mode)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvAsList splits a comma separated value. A variable set to "-" yields
// an empty list so defaults can be switched off.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	if valueStr == "-" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
