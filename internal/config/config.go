package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
// Values come from an optional YAML file (ETHMON_CONFIG) overridden by
// environment variables. The API key is env-only so it never ends up in a
// config file checked into version control.
type Config struct {
	// Node endpoints
	ErigonRPC string `yaml:"erigon_rpc"` // Erigon JSON-RPC
	PrysmAPI  string `yaml:"prysm_api"`  // Prysm standard REST API

	// Log locations
	ErigonLog string `yaml:"erigon_log"` // execution client log file
	PrysmLog  string `yaml:"prysm_log"`  // consensus client log file
	LogDir    string `yaml:"log_dir"`    // consensus log directory for the eta command

	// Log scan markers
	ErigonWarnMarker string `yaml:"erigon_warn_marker"`
	ErigonErrMarker  string `yaml:"erigon_err_marker"`
	PrysmWarnMarker  string `yaml:"prysm_warn_marker"`
	PrysmErrMarker   string `yaml:"prysm_err_marker"`

	// ETA settings
	AllTimeStart string `yaml:"all_time_start"` // optional ISO-8601 floor for the all-time window

	// Triage settings
	AnthropicAPIKey string `yaml:"-"`
	AnthropicModel  string `yaml:"anthropic_model"`

	// History
	HistoryDB string `yaml:"history_db"`

	// Observability
	LogLevel       string `yaml:"log_level"`
	TracingEnabled bool   `yaml:"tracing_enabled"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPProtocol   string `yaml:"otlp_protocol"`
}

// Load loads configuration: defaults, then the YAML file named by
// ETHMON_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("ETHMON_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	cfg.ErigonLog = expandHome(cfg.ErigonLog)
	cfg.PrysmLog = expandHome(cfg.PrysmLog)
	cfg.LogDir = expandHome(cfg.LogDir)
	cfg.HistoryDB = expandHome(cfg.HistoryDB)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		ErigonRPC: "http://localhost:8545",
		PrysmAPI:  "http://localhost:3500",

		ErigonLog: filepath.Join(home, "logs", "erigon_logs", "erigon.log"),
		PrysmLog:  filepath.Join(home, "logs", "prysm_logs", "prysm.log"),
		LogDir:    filepath.Join(home, "logs", "prysm_logs"),

		ErigonWarnMarker: "[WARN]",
		ErigonErrMarker:  "[ERROR]",
		PrysmWarnMarker:  "level=warning",
		PrysmErrMarker:   "level=error",

		AnthropicModel: "claude-sonnet-4-5",

		HistoryDB: filepath.Join(home, ".ethmon", "history.db"),

		LogLevel:     "info",
		OTLPProtocol: "grpc",
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ErigonRPC = getEnv("ERIGON_RPC", c.ErigonRPC)
	c.PrysmAPI = getEnv("PRYSM_API", c.PrysmAPI)
	c.ErigonLog = getEnv("ERIGON_LOG", c.ErigonLog)
	c.PrysmLog = getEnv("PRYSM_LOG", c.PrysmLog)
	c.LogDir = getEnv("ETH_LOG_DIR", c.LogDir)
	c.AllTimeStart = getEnv("ALL_TIME_START", c.AllTimeStart)
	c.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	c.AnthropicModel = getEnv("ANTHROPIC_MODEL", c.AnthropicModel)
	c.HistoryDB = getEnv("ETHMON_HISTORY_DB", c.HistoryDB)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.TracingEnabled = getEnvBool("TRACING_ENABLED", c.TracingEnabled)
	c.OTLPEndpoint = getEnv("OTLP_ENDPOINT", c.OTLPEndpoint)
	c.OTLPProtocol = getEnv("OTLP_PROTOCOL", c.OTLPProtocol)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ErigonRPC == "" {
		return fmt.Errorf("ERIGON_RPC is required")
	}
	if c.PrysmAPI == "" {
		return fmt.Errorf("PRYSM_API is required")
	}
	if c.LogDir == "" {
		return fmt.Errorf("ETH_LOG_DIR is required")
	}
	if c.AnthropicModel == "" {
		return fmt.Errorf("ANTHROPIC_MODEL must not be empty")
	}
	if c.OTLPProtocol != "grpc" && c.OTLPProtocol != "http" {
		return fmt.Errorf("OTLP_PROTOCOL must be 'grpc' or 'http'")
	}
	return nil
}

// AllTimeFloor parses the optional all-time window floor. An unset value
// yields (nil, nil); a malformed one is reported so the caller can warn and
// fall back to the true earliest sample.
func (c *Config) AllTimeFloor() (*time.Time, error) {
	if c.AllTimeStart == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, c.AllTimeStart)
	if err != nil {
		return nil, fmt.Errorf("ALL_TIME_START is not a valid ISO-8601 timestamp: %w", err)
	}
	t = t.UTC()
	return &t, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// expandHome is a helper for values operators tend to write with a leading
// tilde in the YAML file.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
