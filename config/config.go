// Package config loads settings for the b64 command and transcoding service
// from YAML, TOML or JSON files, .env files and B64_* environment variables.
package config

import (
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"

	"github.com/presbrey/b64/base64"
)

// CodecConfig selects the alphabet used when a request does not name one.
type CodecConfig struct {
	Variant base64.Variant `yaml:"variant" toml:"variant" json:"variant" env:"B64_VARIANT" validate:"oneof=0 1"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `yaml:"host" toml:"host" json:"host" env:"B64_HOST"`
	Port            int           `yaml:"port" toml:"port" json:"port" env:"B64_PORT" validate:"min=1,max=65535"`
	BodyLimit       string        `yaml:"body_limit" toml:"body_limit" json:"body_limit" env:"B64_BODY_LIMIT" validate:"required,bytesize"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" json:"shutdown_timeout" env:"B64_SHUTDOWN_TIMEOUT" validate:"gte=0"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled" json:"enabled" env:"B64_METRICS_ENABLED"`
	Path    string `yaml:"path" toml:"path" json:"path" env:"B64_METRICS_PATH" validate:"required,startswith=/"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Requests writes one access log line per HTTP request.
	Requests bool `yaml:"requests" toml:"requests" json:"requests" env:"B64_LOG_REQUESTS"`
	// Silent suppresses all log output from the server.
	Silent bool `yaml:"silent" toml:"silent" json:"silent" env:"B64_LOG_SILENT"`
}

// Config represents the full configuration
type Config struct {
	Codec   CodecConfig   `yaml:"codec" toml:"codec" json:"codec"`
	Server  ServerConfig  `yaml:"server" toml:"server" json:"server"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics" json:"metrics"`
	Log     LogConfig     `yaml:"log" toml:"log" json:"log"`

	// Source is the file or URL the configuration was read from, if any.
	Source string `yaml:"-" toml:"-" json:"-"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.Codec.Variant = base64.Standard
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8064
	cfg.Server.BodyLimit = "4M"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	cfg.Log.Requests = true
	return cfg
}

// Load reads configuration from a file or URL on top of Default, then
// applies environment variable overrides. An empty source skips the file.
func Load(source string) (*Config, error) {
	cfg := Default()

	if source != "" {
		if err := cfg.loadFromSource(source); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromSource loads configuration from a file or URL
func (c *Config) loadFromSource(source string) error {
	var data []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return fmt.Errorf("failed to load config from URL: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to load config from URL, status: %s", resp.Status)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read config from URL: %w", err)
		}
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Determine the format based on the extension, ignoring any URL query.
	name := source
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch {
	case strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml"):
		err = yaml.Unmarshal(data, c)
	case strings.HasSuffix(name, ".toml"):
		err = toml.Unmarshal(data, c)
	case strings.HasSuffix(name, ".json"):
		err = json.Unmarshal(data, c)
	default:
		err = yaml.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	c.Source = source
	return nil
}

// Validate checks the configuration with the `validate` struct tags.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// newValidator returns a validator that also knows "bytesize", a positive
// size such as 4M or 512KB in the form echo's BodyLimit middleware accepts.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		n, err := bytes.Parse(fl.Field().String())
		return err == nil && n > 0
	})
	return v
}

// ListenAddress returns the host:port the HTTP server binds to.
func (c *Config) ListenAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Encoding returns the codec for the configured variant.
func (c *Config) Encoding() *base64.Encoding {
	return base64.For(c.Codec.Variant)
}

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	durationType        = reflect.TypeOf(time.Duration(0))
)

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) error {
	return applyEnvOverridesRecursive(reflect.ValueOf(cfg).Elem())
}

func applyEnvOverridesRecursive(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if field.PkgPath != "" {
			continue
		}

		if envTag := field.Tag.Get("env"); envTag != "" {
			// Empty values count as unset.
			envValue := os.Getenv(envTag)
			if envValue == "" {
				continue
			}
			if err := setFieldFromEnv(fieldValue, envValue); err != nil {
				return fmt.Errorf("config: %s=%q: %w", envTag, envValue, err)
			}
		} else if field.Type.Kind() == reflect.Struct {
			if err := applyEnvOverridesRecursive(fieldValue); err != nil {
				return err
			}
		}
	}
	return nil
}

// setFieldFromEnv sets a field's value from an environment variable
func setFieldFromEnv(field reflect.Value, envValue string) error {
	if reflect.PointerTo(field.Type()).Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(envValue))
	}
	if field.Type() == durationType {
		d, err := time.ParseDuration(envValue)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(envValue)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(envValue), 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		field.SetBool(parseBool(envValue))
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "y"
}
