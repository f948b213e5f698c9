package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Blob store credentials
	CloudName      string
	CloudAPIKey    string
	CloudAPISecret string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:    getTablePrefix(env),
		CloudName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
