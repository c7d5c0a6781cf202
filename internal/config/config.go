package config

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Defaults used when no config file is given or a field is left out.
const (
	DefaultProdDataPath  = "/persistent/free-sleep-data/"
	DefaultLocalDataPath = "/Users/ds/free-sleep/server/free-sleep-data/"
	DefaultStatusURL     = "http://127.0.0.1:3000"
	DefaultTimeout       = "5s"
	DefaultMaxSize       = "10MB"
	DefaultSentryDSN     = "https://71dec16dc7338369a770c424783d1712@o4510246020710401.ingest.us.sentry.io/4510252550979584"
)

// Tracking backends
const (
	BackendSentry = "sentry"
	BackendGelf   = "gelf"
	BackendNone   = "none"
)

// Paths holds the data folder used in each runtime environment.
type Paths struct {
	Prod  string `yaml:"prod" validate:"required"`
	Local string `yaml:"local" validate:"required"`
}

// FileSink configures the per-job log file.
type FileSink struct {
	MaxSize    string `yaml:"max_size"`                     // e.g. "10MB", plain numbers are bytes
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"` // 0 truncates on overflow
	Compress   bool   `yaml:"compress,omitempty"`           // only used when max_backups > 0
}

// StatusAPI points at the local settings/status service.
type StatusAPI struct {
	BaseURL string `yaml:"base_url" validate:"required"`
	Timeout string `yaml:"timeout"` // e.g. "5s"
}

// Gelf holds the Graylog endpoint for the gelf tracking backend.
type Gelf struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	Protocol string `yaml:"protocol,omitempty"` // udp (default) or tcp
}

// Tracking configures the error-tracking integration.
type Tracking struct {
	Backend        string   `yaml:"backend" validate:"oneof=sentry gelf none"`
	DSN            string   `yaml:"dsn,omitempty"`
	SendDefaultPII bool     `yaml:"send_default_pii"`
	Gelf           Gelf     `yaml:"gelf,omitempty"`
	IgnoreMessages []string `yaml:"ignore_messages,omitempty"`   // glob patterns matched against the message
	RateLimit      int      `yaml:"rate_limit" validate:"gte=0"` // events per minute, 0 = unlimited
}

// Config represents the joblog configuration
type Config struct {
	Paths     Paths     `yaml:"paths"`
	File      FileSink  `yaml:"file"`
	StatusAPI StatusAPI `yaml:"status_api"`
	Tracking  Tracking  `yaml:"tracking"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Paths.Prod = DefaultProdDataPath
	cfg.Paths.Local = DefaultLocalDataPath
	cfg.File.MaxSize = DefaultMaxSize
	cfg.StatusAPI.BaseURL = DefaultStatusURL
	cfg.StatusAPI.Timeout = DefaultTimeout
	cfg.Tracking.Backend = BackendSentry
	cfg.Tracking.DSN = DefaultSentryDSN
	cfg.Tracking.Gelf.Protocol = "udp"
	return cfg
}

// LoadConfig loads and validates the configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	// Defaults first, the file only overrides what it sets
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file '%s': %w", path, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Timeout returns the parsed status API timeout.
func (c *Config) Timeout() time.Duration {
	d, err := ParseDuration(c.StatusAPI.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// MaxSizeBytes returns the parsed file size cap.
func (c *Config) MaxSizeBytes() int64 {
	n, err := ParseSize(c.File.MaxSize)
	if err != nil || n <= 0 {
		n, _ = ParseSize(DefaultMaxSize)
	}
	return n
}

// validateConfig performs semantic validation of the configuration
func validateConfig(cfg *Config) error {
	if _, err := url.ParseRequestURI(cfg.StatusAPI.BaseURL); err != nil {
		return fmt.Errorf("invalid status_api.base_url '%s': %w", cfg.StatusAPI.BaseURL, err)
	}
	if cfg.StatusAPI.Timeout != "" {
		if _, err := ParseDuration(cfg.StatusAPI.Timeout); err != nil {
			return fmt.Errorf("invalid status_api.timeout: %w", err)
		}
	}

	if cfg.File.MaxSize != "" {
		n, err := ParseSize(cfg.File.MaxSize)
		if err != nil {
			return fmt.Errorf("invalid file.max_size: %w", err)
		}
		if n == 0 {
			return errors.New("file.max_size must be positive")
		}
	}

	switch cfg.Tracking.Backend {
	case BackendSentry:
		if cfg.Tracking.DSN == "" {
			return errors.New("tracking.dsn is required for backend 'sentry'")
		}
	case BackendGelf:
		if cfg.Tracking.Gelf.Host == "" {
			return errors.New("tracking.gelf.host is required for backend 'gelf'")
		}
		if cfg.Tracking.Gelf.Port <= 0 {
			return fmt.Errorf("invalid tracking.gelf.port %d for backend 'gelf'", cfg.Tracking.Gelf.Port)
		}
		if cfg.Tracking.Gelf.Protocol != "" && cfg.Tracking.Gelf.Protocol != "udp" && cfg.Tracking.Gelf.Protocol != "tcp" {
			return fmt.Errorf("invalid tracking.gelf.protocol '%s', must be 'udp' or 'tcp'", cfg.Tracking.Gelf.Protocol)
		}
		if cfg.Tracking.Gelf.Protocol == "" {
			cfg.Tracking.Gelf.Protocol = "udp"
		}
	}

	for i, pattern := range cfg.Tracking.IgnoreMessages {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("tracking.ignore_messages[%d]: invalid pattern '%s': %w", i, pattern, err)
		}
	}

	return nil
}

// ValidateConfig uses go-playground/validator for struct-level validation.
// It complements the semantic validation in validateConfig.
func ValidateConfig(cfg *Config) error {
	validate := validator.New()

	err := validate.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fe.Namespace(), fe.Tag()))
		}
		return errors.New(strings.Join(messages, "; "))
	}

	return validateConfig(cfg)
}

// ParseDuration parses a duration string (e.g., "5s", "1h30m", "7d").
// Supports standard time.ParseDuration units plus 'd' for days.
// Returns an error if the format is invalid or the duration is non-positive.
func ParseDuration(durationStr string) (time.Duration, error) {
	durationStr = strings.TrimSpace(durationStr)
	if durationStr == "" {
		return 0, errors.New("duration string cannot be empty")
	}

	if strings.HasSuffix(strings.ToLower(durationStr), "d") {
		numStr := strings.TrimSuffix(strings.ToLower(durationStr), "d")
		days, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number format for days in '%s': %w", durationStr, err)
		}
		if days <= 0 {
			return 0, fmt.Errorf("duration must be positive: '%s'", durationStr)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format '%s': %w", durationStr, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: '%s'", durationStr)
	}
	return d, nil
}

// ParseSize parses a size string (e.g., "10MB", "5k", "1G") into bytes.
// Supports K, M, G suffixes (case-insensitive), with or without a trailing B.
func ParseSize(sizeStr string) (int64, error) {
	sizeStr = strings.TrimSpace(strings.ToUpper(sizeStr))
	if sizeStr == "" {
		return 0, errors.New("size string cannot be empty")
	}

	var multiplier int64 = 1
	suffix := ""
	for _, unit := range []struct {
		suffix string
		mult   int64
	}{
		{"KB", 1024}, {"K", 1024},
		{"MB", 1024 * 1024}, {"M", 1024 * 1024},
		{"GB", 1024 * 1024 * 1024}, {"G", 1024 * 1024 * 1024},
	} {
		if strings.HasSuffix(sizeStr, unit.suffix) {
			multiplier = unit.mult
			suffix = unit.suffix
			break
		}
	}

	numStr := strings.TrimSpace(strings.TrimSuffix(sizeStr, suffix))

	numBig := new(big.Int)
	if _, ok := numBig.SetString(numStr, 10); !ok {
		return 0, fmt.Errorf("invalid number format in size string '%s'", sizeStr)
	}
	if numBig.Sign() < 0 {
		return 0, fmt.Errorf("size cannot be negative: %s", numBig.String())
	}

	resultBig := new(big.Int).Mul(numBig, big.NewInt(multiplier))
	if !resultBig.IsInt64() {
		return 0, fmt.Errorf("size value %s%s results in overflow (exceeds max int64)", numBig.String(), suffix)
	}

	return resultBig.Int64(), nil
}
