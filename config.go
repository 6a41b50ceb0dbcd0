// FILE: config.go
package sink

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds all writer configuration values
type Config struct {
	// Output target
	Enabled  bool   `toml:"enabled"`   // Disabled writers accept and discard
	FilePath string `toml:"file_path"` // Active log file path

	// Rotation
	Rotate               bool   `toml:"rotate"`
	MaxLogSize           int64  `toml:"max_log_size"`             // Bytes before rotation
	MaxLogFiles          int64  `toml:"max_log_files"`            // Retained rotated files
	OnMaxLogFilesReached string `toml:"on_max_log_files_reached"` // "deleteOld" or "archiveOld"

	// Queue
	QueueSize int64 `toml:"queue_size"` // Bounded pending entry capacity

	// Filesystem retry
	RetryCount   int64 `toml:"retry_count"`    // Retries after the first attempt
	RetryDelayMs int64 `toml:"retry_delay_ms"` // Fixed delay between attempts

	// Circuit breaker
	BreakerThreshold  int64 `toml:"breaker_threshold"`   // Consecutive failures before opening
	BreakerCooldownMs int64 `toml:"breaker_cooldown_ms"` // Open duration before a reopen attempt

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal diagnostics to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Enabled:  true,
	FilePath: "./logs/app.log",

	Rotate:               true,
	MaxLogSize:           10 * 1024 * 1024,
	MaxLogFiles:          5,
	OnMaxLogFilesReached: StrategyDeleteOld,

	QueueSize: 100_000,

	RetryCount:   5,
	RetryDelayMs: 100,

	BreakerThreshold:  5,
	BreakerCooldownMs: 30_000,

	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("sink.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "sink.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	// Validate the loaded configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		// Get the toml tag to determine the config key
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// String validations
	if strings.TrimSpace(c.FilePath) == "" {
		return fmtErrorf("file_path cannot be empty")
	}

	if strings.HasSuffix(c.FilePath, string(filepath.Separator)) {
		return fmtErrorf("file_path must name a file, not a directory: %s", c.FilePath)
	}

	// Rotation validations
	if c.Rotate {
		if c.MaxLogSize <= 0 {
			return fmtErrorf("max_log_size must be positive when rotation is enabled: %d", c.MaxLogSize)
		}

		// Renumbering with zero or negative slots has no defined on-disk layout
		if c.MaxLogFiles <= 0 {
			return fmtErrorf("max_log_files must be positive when rotation is enabled: %d", c.MaxLogFiles)
		}

		if c.OnMaxLogFilesReached != StrategyDeleteOld && c.OnMaxLogFilesReached != StrategyArchiveOld {
			return fmtErrorf("invalid on_max_log_files_reached: '%s' (use %s or %s)",
				c.OnMaxLogFilesReached, StrategyDeleteOld, StrategyArchiveOld)
		}
	}

	// Numeric validations
	if c.QueueSize <= 0 {
		return fmtErrorf("queue_size must be positive: %d", c.QueueSize)
	}

	if c.RetryCount < 0 {
		return fmtErrorf("retry_count cannot be negative: %d", c.RetryCount)
	}

	if c.RetryDelayMs < 0 {
		return fmtErrorf("retry_delay_ms cannot be negative: %d", c.RetryDelayMs)
	}

	if c.BreakerThreshold <= 0 {
		return fmtErrorf("breaker_threshold must be positive: %d", c.BreakerThreshold)
	}

	if c.BreakerCooldownMs <= 0 {
		return fmtErrorf("breaker_cooldown_ms must be positive: %d", c.BreakerCooldownMs)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
