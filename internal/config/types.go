// Package config provides configuration loading and management for brambling.
//
// Configuration is loaded using Viper, supporting YAML config files and
// environment variable overrides. The defaults work out of the box, so a
// config file is only needed to point at a different store, manifest or
// listen address.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [ServerConfig], [StoreConfig], [LogConfig], [OutputConfig] group the
//     settings of each component
//
// Configuration priority (highest to lowest):
//  1. Environment variables (BRAMBLING_ prefix, e.g. BRAMBLING_SERVER_ADDR)
//  2. Config file specified by BRAMBLING_CONFIG_PATH
//  3. User config directory (platform-standard):
//     - Linux: ~/.config/brambling/config.yaml
//     - macOS: ~/Library/Application Support/brambling/config.yaml
//     - Windows: %APPDATA%\brambling\config.yaml
//  4. ./config/config.yaml
//  5. [DefaultConfig] defaults
package config

// Config represents the root configuration structure.
type Config struct {
	// AppName is attached to every log line.
	AppName string `mapstructure:"app_name"`

	// Store locates the event and order records.
	Store StoreConfig `mapstructure:"store"`

	// Manifest optionally reorders and renames checkout steps.
	Manifest ManifestConfig `mapstructure:"manifest"`

	// Server contains HTTP listener settings.
	Server ServerConfig `mapstructure:"server"`

	// Log contains logger settings.
	Log LogConfig `mapstructure:"log"`

	// Output contains terminal output settings.
	Output OutputConfig `mapstructure:"output"`
}

// StoreConfig locates the YAML store file.
type StoreConfig struct {
	// Path is an explicit store file path. Empty means auto-discovery
	// relative to the working directory.
	Path string `mapstructure:"path"`
}

// ManifestConfig locates the optional step manifest.
type ManifestConfig struct {
	// Path is the step manifest CSV. Empty uses the built-in step order.
	Path string `mapstructure:"path"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string `mapstructure:"addr"`

	// Mode is the gin mode: "debug", "release" or "test".
	// Default: "release"
	Mode string `mapstructure:"mode"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	// Default: "INFO"
	Level string `mapstructure:"level"`

	// Console selects human-readable output instead of JSON lines.
	// Default: true
	Console bool `mapstructure:"console"`
}

// OutputConfig contains terminal output settings.
type OutputConfig struct {
	// ShowInactive lists skipped steps in the steps command.
	// Default: true
	ShowInactive bool `mapstructure:"show_inactive"`

	// CompleteMessage is printed when every step of an order is completed.
	// It is a Go template; see [MessageData] for the available fields.
	CompleteMessage string `mapstructure:"complete_message"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		AppName: "brambling",
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Log: LogConfig{
			Level:   "INFO",
			Console: true,
		},
		Output: OutputConfig{
			ShowInactive:    true,
			CompleteMessage: "Order {{.OrderCode}} for {{.EventName}} is complete.",
		},
	}
}

// MessageData contains data for message template expansion.
//
// Fields are accessible in templates using {{.FieldName}} syntax.
type MessageData struct {
	EventName string
	OrderCode string
}
