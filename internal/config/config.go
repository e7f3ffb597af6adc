// Package config handles endpoint configuration.
// file: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/cowgnition/internal/logging"
	"github.com/dkoosis/cowgnition/internal/rpcerrors"
)

var logger = logging.GetLogger("config")

// Settings represents the endpoint's configuration, loaded from a YAML file
// and overridable by environment variables.
type Settings struct {
	Endpoint EndpointConfig `yaml:"endpoint"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// EndpointConfig contains endpoint-level settings. Port and Transport are
// carried for future transport selection (spec.md Non-goals: only stdio is
// wired today, but the field exists so a transport can be injected without
// a config format change).
type EndpointConfig struct {
	Name                   string `yaml:"name"`
	Port                   int    `yaml:"port"`
	Transport              string `yaml:"transport"`
	RequestTimeoutSeconds  int    `yaml:"request_timeout_seconds"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

const (
	defaultPort                   = 8080
	defaultRequestTimeoutSeconds  = 30
	defaultShutdownTimeoutSeconds = 5
	defaultTransport              = "stdio"
	defaultLogLevel               = "info"
	defaultLogFormat              = "text"
)

// New creates a new configuration with default values.
func New() *Settings {
	logger.Debug("creating new configuration settings with defaults")
	return &Settings{
		Endpoint: EndpointConfig{
			Name:                   "lspendpoint",
			Port:                   defaultPort,
			Transport:              defaultTransport,
			RequestTimeoutSeconds:  defaultRequestTimeoutSeconds,
			ShutdownTimeoutSeconds: defaultShutdownTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// LoadConfig reads a YAML file at path, applies defaults for any zero
// fields, applies environment variable overrides, and validates the
// result.
func LoadConfig(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rpcerrors.Wrapf(err, "config: failed to read %q", path)
	}

	settings := New()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, rpcerrors.Wrapf(err, "config: failed to parse %q", path)
	}

	applyDefaults(settings)
	applyEnvOverrides(settings)

	if err := validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func applyDefaults(s *Settings) {
	if s.Endpoint.Port == 0 {
		s.Endpoint.Port = defaultPort
	}
	if s.Endpoint.Transport == "" {
		s.Endpoint.Transport = defaultTransport
	}
	if s.Endpoint.RequestTimeoutSeconds == 0 {
		s.Endpoint.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
	if s.Endpoint.ShutdownTimeoutSeconds == 0 {
		s.Endpoint.ShutdownTimeoutSeconds = defaultShutdownTimeoutSeconds
	}
	if s.Logging.Level == "" {
		s.Logging.Level = defaultLogLevel
	}
	if s.Logging.Format == "" {
		s.Logging.Format = defaultLogFormat
	}
}

// applyEnvOverrides lets PORT, REQUEST_TIMEOUT_SECONDS, and LOG_LEVEL
// override file values, matching the override convention the original
// server config exposed for its own settings.
func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("PORT"); v != "" {
		if n, err := parseInt(v); err == nil {
			s.Endpoint.Port = n
		} else {
			logger.Warn("ignoring malformed PORT override", "value", v)
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := parseInt(v); err == nil {
			s.Endpoint.RequestTimeoutSeconds = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
}

var validTransports = map[string]bool{"stdio": true}

func validate(s *Settings) error {
	if s.Endpoint.Name == "" {
		return rpcerrors.New("config: endpoint.name must not be empty")
	}
	if s.Endpoint.Port <= 0 {
		return rpcerrors.Newf("config: endpoint.port must be positive, got %d", s.Endpoint.Port)
	}
	if !validTransports[s.Endpoint.Transport] {
		return rpcerrors.Newf("config: unsupported transport %q", s.Endpoint.Transport)
	}
	return nil
}

// GetServerName returns the endpoint name.
func (s *Settings) GetServerName() string {
	return s.Endpoint.Name
}

// GetServerAddress returns the endpoint address as host:port.
func (s *Settings) GetServerAddress() string {
	return fmt.Sprintf(":%d", s.Endpoint.Port)
}

// ExpandPath expands ~ in paths to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", rpcerrors.Wrap(err, "config: failed to get user home directory")
	}
	return filepath.Join(home, path[1:]), nil
}

// expandPath is ExpandPath with the (rare) home-directory lookup failure
// swallowed, returning path unchanged; used where a best-effort expansion
// is acceptable, such as default log file locations.
func expandPath(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// parseInt parses s as a base-10 integer, rejecting any trailing garbage.
func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, rpcerrors.Wrapf(err, "config: invalid integer %q", s)
	}
	return n, nil
}
