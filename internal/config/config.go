// Package config provides route-table configuration loading, validation,
// and hot reload for the routing engine.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/routeforge/routeforge/internal/routing"
	"github.com/routeforge/routeforge/internal/util"
)

// Config is the top-level configuration document.
type Config struct {
	// Listen is the address of the resolution HTTP endpoint.
	Listen string `yaml:"listen" json:"listen"`

	// MetricsPath is where Prometheus metrics are exposed.
	MetricsPath string `yaml:"metricsPath,omitempty" json:"metricsPath,omitempty"`

	ReadTimeout     time.Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	WriteTimeout    time.Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`

	Logging LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`

	Resolver ResolverConfig `yaml:"resolver,omitempty" json:"resolver,omitempty"`

	// Routes is the declarative route table.
	Routes []RouteSpec `yaml:"routes" json:"routes"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// ResolverConfig configures resolution behavior.
type ResolverConfig struct {
	// MatchTrailingSlashes requires a request's trailing slash presence to
	// equal the route pattern's. Off by default.
	MatchTrailingSlashes bool `yaml:"matchTrailingSlashes,omitempty" json:"matchTrailingSlashes,omitempty"`
}

// RouteSpec is one declarative route definition.
type RouteSpec struct {
	// Name identifies the route in diagnostics. Optional, but unique when
	// present.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Pattern is the route pattern, e.g. /users/{id:int}.
	Pattern string `yaml:"pattern" json:"pattern"`

	// Methods lists the HTTP methods the route serves. "*" matches all.
	Methods []string `yaml:"methods" json:"methods"`

	// Handler is the opaque handler reference reported on a match.
	Handler string `yaml:"handler" json:"handler"`
}

// Definition converts the spec into the engine's producer contract.
func (s RouteSpec) Definition() routing.Definition {
	return routing.Definition{
		Pattern: s.Pattern,
		Methods: s.Methods,
		Handler: s.Handler,
	}
}

// Definitions converts the whole route table.
func (c *Config) Definitions() []routing.Definition {
	defs := make([]routing.Definition, 0, len(c.Routes))
	for _, spec := range c.Routes {
		defs = append(defs, spec.Definition())
	}
	return defs
}

// Default configuration values.
const (
	DefaultListen          = ":8080"
	DefaultMetricsPath     = "/metrics"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
)

// applyDefaults fills unset fields with defaults.
func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.MetricsPath == "" {
		c.MetricsPath = DefaultMetricsPath
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Load loads configuration from a file path.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // path is validated via filepath.Abs
	if err != nil {
		return nil, util.NewConfigErrorWithCause("", fmt.Sprintf("failed to read config file %s", path), err)
	}

	return parse(data)
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parse(data)
}

// parse unmarshals YAML after environment variable substitution.
func parse(data []byte) (*Config, error) {
	content := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, util.NewConfigErrorWithCause("", "failed to parse YAML", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values. "$$" escapes a literal dollar sign.
func substituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", "\x00ESCAPED_DOLLAR\x00")

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""
		if len(submatches) >= 3 {
			defaultValue = submatches[2]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return defaultValue
	})

	return strings.ReplaceAll(result, "\x00ESCAPED_DOLLAR\x00", "$")
}
