package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the root application configuration
type Config struct {
	API       APIConfig       `mapstructure:"api" yaml:"api"`
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	Player    PlayerConfig    `mapstructure:"player" yaml:"player"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Session   SessionConfig   `mapstructure:"session" yaml:"session"`
	UI        UIConfig        `mapstructure:"ui" yaml:"ui"`
	Advanced  AdvancedConfig  `mapstructure:"advanced" yaml:"advanced"`
}

// APIConfig holds the base URLs of the remote services
type APIConfig struct {
	MetadataURL    string        `mapstructure:"metadata_url" yaml:"metadata_url"`
	BackendURL     string        `mapstructure:"backend_url" yaml:"backend_url"`
	ProxyURL       string        `mapstructure:"proxy_url" yaml:"proxy_url"`
	StreamProxyURL string        `mapstructure:"stream_proxy_url" yaml:"stream_proxy_url"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// ProvidersConfig controls episode providers and source preferences
type ProvidersConfig struct {
	// Order is the fallback order used when resolving sources
	Order            []string         `mapstructure:"order" yaml:"order"`
	Pahe             ProviderSettings `mapstructure:"pahe" yaml:"pahe"`
	Zoro             ProviderSettings `mapstructure:"zoro" yaml:"zoro"`
	AudioPreference  string           `mapstructure:"audio_preference" yaml:"audio_preference"` // sub or dub
	PreferredQuality string           `mapstructure:"preferred_quality" yaml:"preferred_quality"`
}

// ProviderSettings holds per-provider switches
type ProviderSettings struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// PlayerConfig controls how episodes are played
type PlayerConfig struct {
	Backend        string   `mapstructure:"backend" yaml:"backend"` // mpv, browser, print
	MPVArgs        []string `mapstructure:"mpv_args" yaml:"mpv_args"`
	LoadUserConfig bool     `mapstructure:"load_user_config" yaml:"load_user_config"`
}

// DatabaseConfig controls the local SQLite database
type DatabaseConfig struct {
	Path           string `mapstructure:"path" yaml:"path"`
	MaxConnections int    `mapstructure:"max_connections" yaml:"max_connections"`
	WALMode        bool   `mapstructure:"wal_mode" yaml:"wal_mode"`
	AutoVacuum     bool   `mapstructure:"auto_vacuum" yaml:"auto_vacuum"`
}

// LoggingConfig controls application logging
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
	Color      bool   `mapstructure:"color" yaml:"color"`
}

// SessionConfig controls the backend session token
type SessionConfig struct {
	TokenLifetime time.Duration `mapstructure:"token_lifetime" yaml:"token_lifetime"`
}

// UIConfig controls list sizes
type UIConfig struct {
	PageSize          int `mapstructure:"page_size" yaml:"page_size"`
	EpisodeGroupSize  int `mapstructure:"episode_group_size" yaml:"episode_group_size"`
	WatchlistFeedSize int `mapstructure:"watchlist_feed_size" yaml:"watchlist_feed_size"`
	RelationsLimit    int `mapstructure:"relations_limit" yaml:"relations_limit"`
}

// AdvancedConfig holds debugging and integration switches
type AdvancedConfig struct {
	Debug     bool            `mapstructure:"debug" yaml:"debug"`
	Clipboard ClipboardConfig `mapstructure:"clipboard" yaml:"clipboard"`
}

// ClipboardConfig overrides the clipboard command
type ClipboardConfig struct {
	Command string `mapstructure:"command" yaml:"command"`
}

const appName = "mugiwara"

// SetDefaults registers every default value on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.metadata_url", "https://graphql.anilist.co")
	v.SetDefault("api.backend_url", "https://mugiwarahubbackend-production.up.railway.app")
	v.SetDefault("api.proxy_url", "https://yonkohubproxyserver-production-70eb.up.railway.app")
	v.SetDefault("api.stream_proxy_url", "https://yonkohubproxyserver-production-ef4b.up.railway.app")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.user_agent", "mugiwara/1.0")

	v.SetDefault("providers.order", []string{"pahe", "zoro"})
	v.SetDefault("providers.pahe.enabled", true)
	v.SetDefault("providers.zoro.enabled", true)
	v.SetDefault("providers.audio_preference", "sub")
	v.SetDefault("providers.preferred_quality", "")

	v.SetDefault("player.backend", "mpv")
	v.SetDefault("player.mpv_args", []string{})
	v.SetDefault("player.load_user_config", true)

	v.SetDefault("database.path", filepath.Join(GetDataDir(), "mugiwara.db"))
	v.SetDefault("database.max_connections", 4)
	v.SetDefault("database.wal_mode", true)
	v.SetDefault("database.auto_vacuum", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", filepath.Join(GetStateDir(), "mugiwara.log"))
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", false)
	v.SetDefault("logging.color", true)

	v.SetDefault("session.token_lifetime", 30*24*time.Hour)

	v.SetDefault("ui.page_size", 20)
	v.SetDefault("ui.episode_group_size", 24)
	v.SetDefault("ui.watchlist_feed_size", 10)
	v.SetDefault("ui.relations_limit", 10)

	v.SetDefault("advanced.debug", false)
	v.SetDefault("advanced.clipboard.command", "")
}

// Load reads the configuration file (if any), environment overrides and defaults.
// The returned viper instance is used for hot reload.
func Load(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("MUGIWARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return &cfg, v, nil
}

// Default returns the configuration built from defaults only
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	switch strings.ToLower(c.Providers.AudioPreference) {
	case "", "sub", "dub":
	default:
		return fmt.Errorf("invalid providers.audio_preference %q: must be sub or dub", c.Providers.AudioPreference)
	}

	switch c.Player.Backend {
	case "mpv", "browser", "print":
	default:
		return fmt.Errorf("invalid player.backend %q: must be mpv, browser or print", c.Player.Backend)
	}

	if c.UI.EpisodeGroupSize <= 0 {
		return fmt.Errorf("ui.episode_group_size must be positive")
	}

	for _, u := range []string{c.API.MetadataURL, c.API.BackendURL, c.API.ProxyURL, c.API.StreamProxyURL} {
		if u == "" {
			return fmt.Errorf("api base URLs must not be empty")
		}
	}

	return nil
}

// SaveDefaultConfig writes the default configuration as YAML to path
func SaveDefaultConfig(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	header := []byte("# mugiwara configuration\n")
	return os.WriteFile(path, append(header, data...), 0644)
}

// InitializeDirs creates the config, data, state and cache directories
func InitializeDirs() error {
	for _, dir := range []string{GetConfigDir(), GetDataDir(), GetStateDir(), GetCacheDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/mugiwara
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".config", appName)
}

// GetDataDir returns $XDG_DATA_HOME/mugiwara
func GetDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".local", "share", appName)
}

// GetStateDir returns $XDG_STATE_HOME/mugiwara
func GetStateDir() string {
	return filepath.Join(getStateDir(), appName)
}

// GetCacheDir returns $XDG_CACHE_HOME/mugiwara
func GetCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".cache", appName)
}

func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".local", "state")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
