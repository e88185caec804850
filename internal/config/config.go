package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	App      AppConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	BaseURL  string // public URL used for referral invite links
	LogLevel string
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "lifefocus"),
			Password: getEnv("DB_PASSWORD", "lifefocus"),
			Name:     getEnv("DB_NAME", "lifefocus"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		App: AppConfig{
			BaseURL:  getEnv("APP_BASE_URL", "https://lifefocus.app"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Referral activation: a referred user counts as active once they have used
// the app on at least 7 distinct days for at least 30 minutes in total.
// Both conditions must hold.
const (
	ActivationMinDays    = 7
	ActivationMinMinutes = 30

	RegistrationBonusWeeksPaid    = 2 // referrer holds a paid non-trial plan
	RegistrationBonusWeeksDefault = 1
)

// Session tracking
const (
	InactivityThreshold = 2 * time.Minute
	SessionSaveInterval = 60 * time.Second
)

// Withdrawals
const MinWithdrawalRub = 1000

// Leaderboard aggregation
const (
	LeaderboardBatchSize = 100
	AggregationInterval  = 1 * time.Hour
	AggregationTimeout   = 5 * time.Minute
	LeaderboardCacheTTL  = 2 * time.Minute
)
