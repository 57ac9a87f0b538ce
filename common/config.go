package common

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file if present. Real deployments set variables
// directly, so a missing file is not an error.
func LoadEnv() {
	godotenv.Load()
}

// Getenv returns the value of an environment variable or a default
func Getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// CorsOrigins returns the allowed CORS origins from CORS_ORIGINS
// (comma-separated), defaulting to the local dev frontends
func CorsOrigins() []string {
	raw := Getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost:5174")

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
