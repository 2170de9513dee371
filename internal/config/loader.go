package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/viper"
)

// configFileName is the config file looked up in the standard locations.
const configFileName = "config.yaml"

// ErrInvalidConfig is returned when a loaded setting has an unusable value.
var ErrInvalidConfig = errors.New("invalid configuration")

// serverModes are the gin modes accepted for server.mode.
var serverModes = []string{"debug", "release", "test"}

// Loader handles Viper-based configuration loading.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a [Loader] with defaults and environment bindings set up.
func NewLoader() *Loader {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("app_name", defaults.AppName)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("manifest.path", defaults.Manifest.Path)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.mode", defaults.Server.Mode)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.console", defaults.Log.Console)
	v.SetDefault("output.show_inactive", defaults.Output.ShowInactive)
	v.SetDefault("output.complete_message", defaults.Output.CompleteMessage)

	v.SetEnvPrefix("BRAMBLING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Load loads configuration from the first config file found, applying
// environment overrides. A missing config file is not an error.
func (l *Loader) Load() (*Config, error) {
	path, err := l.findConfigFile()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return l.unmarshal()
	}
	return l.LoadFromFile(path)
}

// LoadFromFile loads configuration from a specific file. The format is taken
// from the file extension.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	for _, mode := range serverModes {
		if c.Server.Mode == mode {
			return nil
		}
	}
	return fmt.Errorf("%w: server.mode %q must be one of %s", ErrInvalidConfig, c.Server.Mode, strings.Join(serverModes, ", "))
}

func (l *Loader) findConfigFile() (string, error) {
	if envPath := os.Getenv("BRAMBLING_CONFIG_PATH"); envPath != "" {
		return envPath, nil
	}

	var candidates []string
	if userPath, err := DefaultConfigPath(); err == nil {
		candidates = append(candidates, userPath)
	}
	candidates = append(candidates, filepath.Join("config", configFileName))

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// MustLoad loads configuration and panics on error. Intended for main.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// ConfigDir returns the platform-standard brambling config directory.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "brambling"), nil
}

// DefaultConfigPath returns the config file path in [ConfigDir].
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureConfigDir creates [ConfigDir] if it does not exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// CompletionMessage expands [OutputConfig.CompleteMessage] with data.
func (c *Config) CompletionMessage(data MessageData) (string, error) {
	return expandTemplate(c.Output.CompleteMessage, data)
}

func expandTemplate(tmpl string, data MessageData) (string, error) {
	t, err := template.New("message").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
