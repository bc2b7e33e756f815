package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL     string
	MigrateOnBoot   bool
	DatabaseLogging bool

	// JWT
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	JWTExpirationHours int

	// Storage
	StoragePath string
	ImagesMount string
	MaxUploadMB int

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		MigrateOnBoot:      getEnvAsBool("MIGRATE_ON_BOOT", false),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", "proyecthub"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "proyecthub-admin"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 2),
		StoragePath:        getEnv("STORAGE_PATH", "./storage/images"),
		ImagesMount:        normalizeMount(getEnv("IMAGES_MOUNT", "/images/")),
		MaxUploadMB:        getEnvAsInt("MAX_UPLOAD_MB", 10),
		AllowedOrigins:     getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
	}
	cfg.DatabaseLogging = getEnvAsBool("DATABASE_LOGGING", cfg.Environment != "production")

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if cfg.JWTExpirationHours <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", cfg.JWTExpirationHours)
	}

	return cfg, nil
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// normalizeMount makes sure the mount marker is of the form "/name/"
func normalizeMount(m string) string {
	m = strings.Trim(strings.TrimSpace(m), "/")
	if m == "" {
		return "/images/"
	}
	return "/" + m + "/"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
