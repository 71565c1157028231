// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds every runtime setting for the client.
type Config struct {
	// APIBaseURL is the root of the REST backend, e.g. https://api.example.com/api
	APIBaseURL string
	// Port is the listen port for the web facade
	Port string
	// TokenPath is the file the bearer token is persisted to
	TokenPath string
	// StagingDir holds locally staged media before upload; empty means the OS temp dir
	StagingDir string
	// CORSOrigins are the origins allowed to call the facade
	CORSOrigins []string
	// PageSize is the default page size for list fetches
	PageSize int
}

// Load reads configuration from the environment. API_BASE_URL is required;
// everything else has a default.
func Load() (*Config, error) {
	if err := ValidateEnv([]string{"API_BASE_URL"}); err != nil {
		return nil, err
	}

	pageSize, err := intEnv("PAGE_SIZE", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIBaseURL:  strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),
		Port:        GetEnvOrDefault("PORT", "8080"),
		TokenPath:   GetEnvOrDefault("TOKEN_PATH", defaultTokenPath()),
		StagingDir:  os.Getenv("STAGING_DIR"),
		CORSOrigins: splitList(GetEnvOrDefault("CORS_ORIGINS", "http://localhost:5173")),
		PageSize:    pageSize,
	}

	return cfg, nil
}

// ValidateEnv validates that all required environment variables are set
func ValidateEnv(requiredVars []string) error {
	var missing []string

	for _, varName := range requiredVars {
		if os.Getenv(varName) == "" {
			missing = append(missing, varName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".glimpse/token"
	}
	return home + "/.glimpse/token"
}
