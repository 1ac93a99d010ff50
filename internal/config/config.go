// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// BlobEndpoint is the S3-compatible endpoint of the photo bucket. Required.
	BlobEndpoint string

	// BlobRegion is the bucket region. Defaults to "eu-central-003".
	BlobRegion string

	// BlobBucket is the bucket name. Required.
	BlobBucket string

	// BlobKeyID and BlobAppKey are the bucket credentials. Required.
	BlobKeyID  string
	BlobAppKey string

	// NominatimURL is the base URL of the reverse-geocoding service.
	// Defaults to the public OpenStreetMap instance. Set it to "" explicitly
	// via NOMINATIM_URL=off to disable geocoding.
	NominatimURL string

	// NominatimUserAgent identifies this deployment to the Nominatim
	// operators, as their usage policy requires.
	NominatimUserAgent string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		BlobRegion:         getEnv("BLOB_REGION", "eu-central-003"),
		NominatimURL:       getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: getEnv("NOMINATIM_USER_AGENT", "tripmapper-backend"),
	}
	if cfg.NominatimURL == "off" {
		cfg.NominatimURL = ""
	}

	var missing []string

	for _, v := range []struct {
		name string
		dst  *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"BLOB_ENDPOINT", &cfg.BlobEndpoint},
		{"BLOB_BUCKET", &cfg.BlobBucket},
		{"BLOB_KEY_ID", &cfg.BlobKeyID},
		{"BLOB_APP_KEY", &cfg.BlobAppKey},
	} {
		*v.dst = os.Getenv(v.name)
		if *v.dst == "" {
			missing = append(missing, v.name)
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
