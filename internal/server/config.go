package server

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/paydown-forecast/internal/config"
	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"gopkg.in/yaml.v3"
)

const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
)

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// Config holds the settings of the paydown API server.
type Config struct {
	Address string `yaml:"address"`
	// MaxUploadSize caps uploaded scenario files, e.g. "256K" or "1M".
	MaxUploadSize string `yaml:"maxUploadSize"`
	// AllowedOrigins lists the origins allowed by CORS; empty allows all.
	AllowedOrigins []string             `yaml:"allowedOrigins,omitempty"`
	Timeouts       TimeoutConfig        `yaml:"timeouts"`
	Logging        config.LoggingConfig `yaml:"logging"`

	uploadSizeBytes int64
}

// TimeoutConfig holds http.Server timeouts as Go duration strings.
type TimeoutConfig struct {
	Read     string `yaml:"read,omitempty"`
	Write    string `yaml:"write,omitempty"`
	Idle     string `yaml:"idle,omitempty"`
	Shutdown string `yaml:"shutdown,omitempty"`

	read, write, idle, shutdown time.Duration
}

// ReadTimeout bounds reading a whole request.
func (t TimeoutConfig) ReadTimeout() time.Duration { return t.read }

// WriteTimeout bounds writing a response, including the forecast run.
func (t TimeoutConfig) WriteTimeout() time.Duration { return t.write }

// IdleTimeout bounds keep-alive connections.
func (t TimeoutConfig) IdleTimeout() time.Duration { return t.idle }

// ShutdownTimeout bounds the graceful drain on SIGINT or SIGTERM.
func (t TimeoutConfig) ShutdownTimeout() time.Duration { return t.shutdown }

// LoadConfig reads the server configuration at path. A missing file or an
// empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, errs.Configurationf("reading server config %s: %v", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errs.Configurationf("parsing server config %s: %v", path, err)
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns MaxUploadSize in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

func (c *Config) normalize() error {
	c.Address = strings.TrimSpace(c.Address)
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins

	return c.Timeouts.normalize()
}

func (t *TimeoutConfig) normalize() error {
	fields := []struct {
		name     string
		raw      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"read", t.Read, defaultReadTimeout, &t.read},
		{"write", t.Write, defaultWriteTimeout, &t.write},
		{"idle", t.Idle, defaultIdleTimeout, &t.idle},
		{"shutdown", t.Shutdown, defaultShutdownTimeout, &t.shutdown},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(f.raw)
		if raw == "" {
			*f.dst = f.fallback
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return errs.Configurationf("timeouts.%s: %v", f.name, err)
		}
		if d <= 0 {
			return errs.Configurationf("timeouts.%s must be positive, got %s", f.name, raw)
		}
		*f.dst = d
	}
	return nil
}

// ParseSize converts a size such as "512", "256K" or "3MB" into bytes. Units
// are binary and case-insensitive. An empty value yields the default upload
// size.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	digits := strings.IndexFunc(trimmed, func(r rune) bool { return r < '0' || r > '9' })
	if digits == -1 {
		digits = len(trimmed)
	}
	if digits == 0 {
		return 0, errs.Configurationf("invalid size %q", value)
	}

	multiplier, ok := sizeUnits[strings.TrimSpace(trimmed[digits:])]
	if !ok {
		return 0, errs.Configurationf("unsupported size unit in %q", value)
	}
	n, err := strconv.ParseInt(trimmed[:digits], 10, 64)
	if err != nil {
		return 0, errs.Configurationf("invalid size %q: %v", value, err)
	}
	if n > (1<<63-1)/multiplier {
		return 0, errs.Configurationf("size %q overflows", value)
	}
	return n * multiplier, nil
}
