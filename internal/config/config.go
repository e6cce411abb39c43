package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"mlprep/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Upload     UploadConfig
	Pipeline   PipelineConfig
	Algorithms AlgorithmConfig
	Logging    LoggingConfig
	Profiling  ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

// UploadConfig bounds what the upload endpoint accepts
type UploadConfig struct {
	MaxBytes int64
	MaxRows  int
}

// PipelineConfig holds preprocessing settings
type PipelineConfig struct {
	MalformedRowPolicy  string
	MulticlassMaxLabels int
}

// AlgorithmConfig holds algorithm fan-out settings
type AlgorithmConfig struct {
	Timeout     time.Duration
	Concurrency int
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Malformed row policies
const (
	MalformedRowDrop   = "drop"
	MalformedRowStrict = "strict"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     *loadServerConfig(),
		Upload:     *loadUploadConfig(),
		Pipeline:   *loadPipelineConfig(),
		Algorithms: *loadAlgorithmConfig(),
		Logging:    *loadLoggingConfig(),
		Profiling:  *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:     ServerConfig{Port: "8080", GinMode: "release"},
		Upload:     UploadConfig{MaxBytes: 50 * 1024 * 1024, MaxRows: 1_000_000},
		Pipeline:   PipelineConfig{MalformedRowPolicy: MalformedRowDrop, MulticlassMaxLabels: 10},
		Algorithms: AlgorithmConfig{Timeout: 30 * time.Second, Concurrency: 5},
		Logging:    LoggingConfig{Level: "INFO", Format: "json"},
		Profiling:  ProfilingConfig{Port: "6060", Enabled: false},
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		GinMode:     getEnvOrDefault("GIN_MODE", "release"),
		CORSOrigins: getEnvListOrDefault("CORS_ORIGINS", nil),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 50*1024*1024)),
		MaxRows:  getEnvIntOrDefault("MAX_ROWS", 1_000_000),
	}
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		MalformedRowPolicy:  strings.ToLower(getEnvOrDefault("MALFORMED_ROW_POLICY", MalformedRowDrop)),
		MulticlassMaxLabels: getEnvIntOrDefault("MULTICLASS_MAX_LABELS", 10),
	}
}

func loadAlgorithmConfig() *AlgorithmConfig {
	return &AlgorithmConfig{
		Timeout:     getEnvDurationOrDefault("ALGORITHM_TIMEOUT", 30*time.Second),
		Concurrency: getEnvIntOrDefault("ALGORITHM_CONCURRENCY", 5),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Upload.MaxRows <= 0 {
		return errors.ConfigInvalid("MAX_ROWS must be positive")
	}
	switch config.Pipeline.MalformedRowPolicy {
	case MalformedRowDrop, MalformedRowStrict:
	default:
		return errors.ConfigInvalid("MALFORMED_ROW_POLICY must be drop or strict")
	}
	if config.Pipeline.MulticlassMaxLabels < 3 {
		return errors.ConfigInvalid("MULTICLASS_MAX_LABELS must be at least 3")
	}
	if config.Algorithms.Timeout <= 0 {
		return errors.ConfigInvalid("ALGORITHM_TIMEOUT must be positive")
	}
	if config.Algorithms.Concurrency <= 0 {
		return errors.ConfigInvalid("ALGORITHM_CONCURRENCY must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable, dropping blanks
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
