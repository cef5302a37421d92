package config

import (
	"encoding/json"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvPrefix namespaces every environment override
	EnvPrefix = "TESTAGENT_"

	defaultAPIEndpoint = "http://localhost:8000"
)

// UserConfig represents CLI configuration
type UserConfig struct {
	APIEndpoint       string  `json:"api_endpoint"`
	OutputDir         string  `json:"output_dir"`
	CallbackAddr      string  `json:"callback_addr"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	RouteDiscoverPath string  `json:"route_discover_path"`
	RouteExtractPath  string  `json:"route_extract_path"`
	GeneratePath      string  `json:"generate_path"`
	SessionBackend    string  `json:"session_backend"`
	LogLevel          string  `json:"log_level"`
	ConfigVersion     string  `json:"config_version"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	return &UserConfig{
		APIEndpoint:       defaultAPIEndpoint,
		OutputDir:         ".",
		CallbackAddr:      "127.0.0.1:8765",
		RequestsPerSecond: 0,
		RouteDiscoverPath: "/api/routes/discover",
		RouteExtractPath:  "/api/routes/extract",
		GeneratePath:      "/api/generate-test-cases",
		SessionBackend:    "keyring",
		LogLevel:          "info",
		ConfigVersion:     "1.0",
	}
}

// Load loads the configuration from disk, or returns default if not found.
// A .env file in the working directory is read first; TESTAGENT_* variables
// override values from the config file.
func Load() (*UserConfig, error) {
	// Missing .env is not an error
	_ = godotenv.Load()

	config := DefaultConfig()

	configFile := GetConfigFile()
	if data, err := os.ReadFile(configFile); err == nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

func (c *UserConfig) applyEnv() {
	c.APIEndpoint = getEnvWithDefault(EnvPrefix+"API_ENDPOINT", c.APIEndpoint)
	c.OutputDir = getEnvWithDefault(EnvPrefix+"OUTPUT_DIR", c.OutputDir)
	c.CallbackAddr = getEnvWithDefault(EnvPrefix+"CALLBACK_ADDR", c.CallbackAddr)
	c.RouteDiscoverPath = getEnvWithDefault(EnvPrefix+"ROUTE_DISCOVER_PATH", c.RouteDiscoverPath)
	c.RouteExtractPath = getEnvWithDefault(EnvPrefix+"ROUTE_EXTRACT_PATH", c.RouteExtractPath)
	c.GeneratePath = getEnvWithDefault(EnvPrefix+"GENERATE_PATH", c.GeneratePath)
	c.SessionBackend = getEnvWithDefault(EnvPrefix+"SESSION_BACKEND", c.SessionBackend)
	c.LogLevel = getEnvWithDefault(EnvPrefix+"LOG_LEVEL", c.LogLevel)

	if v := os.Getenv(EnvPrefix + "REQUESTS_PER_SECOND"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = rps
		}
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Save saves the configuration to disk with atomic write
func (c *UserConfig) Save() error {
	// Ensure config directory exists
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configFile := GetConfigFile()

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Write to temporary file first (atomic write pattern)
	tempFile := configFile + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return err
	}

	// Rename temp file to actual config file (atomic operation)
	if err := os.Rename(tempFile, configFile); err != nil {
		os.Remove(tempFile) // Clean up temp file on error
		return err
	}

	return nil
}

// Validate validates the configuration
func (c *UserConfig) Validate() error {
	u, err := url.Parse(c.APIEndpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return os.ErrInvalid
	}

	if c.RequestsPerSecond < 0 {
		return os.ErrInvalid
	}

	for _, p := range []string{c.RouteDiscoverPath, c.RouteExtractPath, c.GeneratePath} {
		if !strings.HasPrefix(p, "/") {
			return os.ErrInvalid
		}
	}

	validBackends := map[string]bool{
		"keyring": true,
		"memory":  true,
	}
	if !validBackends[c.SessionBackend] {
		return os.ErrInvalid
	}

	// Validate log level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return os.ErrInvalid
	}

	return nil
}

// GetAPIEndpoint returns the API endpoint without a trailing slash
func (c *UserConfig) GetAPIEndpoint() string {
	return strings.TrimRight(c.APIEndpoint, "/")
}
