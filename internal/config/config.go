package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Trip generation configuration
	TripGeneration TripGenerationConfig

	// Resource allocation placeholders
	Resources ResourceConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// TripGenerationConfig holds the recurring-trip materialization settings
type TripGenerationConfig struct {
	HorizonDays int    // rolling window [today, today+N] to pre-materialize
	CronSpec    string // daily cadence for the scheduled run
	Timezone    string // fixed system time zone for departure/arrival timestamps
}

// ResourceConfig holds the fixed stand-in IDs used by the static resource
// allocator until a real assignment service exists
type ResourceConfig struct {
	DefaultVehicleID   string
	DefaultDriverID    string
	DefaultAttendantID string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		TripGeneration: TripGenerationConfig{
			HorizonDays: getEnvAsInt("TRIP_GENERATION_HORIZON_DAYS", 7),
			CronSpec:    getEnv("TRIP_GENERATION_CRON", "0 0 2 * * *"),
			Timezone:    getEnv("TRIP_TIMEZONE", "Asia/Ho_Chi_Minh"),
		},
		Resources: ResourceConfig{
			DefaultVehicleID:   getEnv("DEFAULT_VEHICLE_ID", ""),
			DefaultDriverID:    getEnv("DEFAULT_DRIVER_ID", ""),
			DefaultAttendantID: getEnv("DEFAULT_ATTENDANT_ID", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.TripGeneration.HorizonDays < 1 {
		return fmt.Errorf("TRIP_GENERATION_HORIZON_DAYS must be at least 1")
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.TripGeneration.CronSpec); err != nil {
		return fmt.Errorf("invalid TRIP_GENERATION_CRON %q: %w", c.TripGeneration.CronSpec, err)
	}

	if _, err := time.LoadLocation(c.TripGeneration.Timezone); err != nil {
		return fmt.Errorf("invalid TRIP_TIMEZONE %q: %w", c.TripGeneration.Timezone, err)
	}

	return nil
}

// Location resolves the configured trip time zone
func (c *TripGenerationConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
