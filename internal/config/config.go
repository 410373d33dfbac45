package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Webhook  WebhookConfig
	Geofence GeofenceConfig
	Store    StoreConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	Timezone    string
}

// WebhookConfig holds the workflow webhook endpoints. Clock, schedule,
// template, registration and profile mutations are all performed by the
// external workflow engine behind these URLs.
type WebhookConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GeofenceConfig is the fallback shift location used when a schedule has
// no location of its own.
type GeofenceConfig struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	LocationName string
}

// StoreConfig holds the base path for device-local persisted state.
type StoreConfig struct {
	BasePath string
}

func Load() (*Config, error) {
	// A missing .env is fine in production; env vars win either way.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "shiftclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Workflow webhook configuration
	webhookTimeout, err := time.ParseDuration(getEnv("WEBHOOK_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}

	config.Webhook = WebhookConfig{
		BaseURL: getEnv("WEBHOOK_BASE_URL", ""),
		Timeout: webhookTimeout,
	}

	// Default geofence configuration
	lat, err := strconv.ParseFloat(getEnv("GEOFENCE_LATITUDE", "40.7128"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_LATITUDE: %w", err)
	}
	lng, err := strconv.ParseFloat(getEnv("GEOFENCE_LONGITUDE", "-74.0060"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_LONGITUDE: %w", err)
	}
	radius, err := strconv.ParseFloat(getEnv("GEOFENCE_RADIUS_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOFENCE_RADIUS_METERS: %w", err)
	}

	config.Geofence = GeofenceConfig{
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: radius,
		LocationName: getEnv("GEOFENCE_LOCATION_NAME", "Main Office"),
	}

	config.Store = StoreConfig{
		BasePath: getEnv("STORE_BASE_PATH", "./data"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Webhook.BaseURL == "" {
		return fmt.Errorf("WEBHOOK_BASE_URL is required")
	}
	if c.Geofence.RadiusMeters <= 0 {
		return fmt.Errorf("GEOFENCE_RADIUS_METERS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
