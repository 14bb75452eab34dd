// Package config loads folio settings from an optional TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"
	"github.com/pelletier/go-toml/v2"

	"github.com/bokul-dev/folio/internal/logging"
	"github.com/bokul-dev/folio/internal/media"
	"github.com/bokul-dev/folio/internal/portfolio"
)

const (
	// DefaultConfigFile is read from the working directory when no path is given
	DefaultConfigFile = "folio.toml"

	EnvConfigFile   = "FOLIO_CONFIG"
	EnvAPIURL       = "PORTFOLIO_API_URL"
	EnvAPIToken     = "PORTFOLIO_API_TOKEN"
	EnvAPITimeout   = "PORTFOLIO_API_TIMEOUT"
	EnvPort         = "FOLIO_PORT"
	EnvPreviewDir   = "FOLIO_PREVIEW_DIR"
	EnvMaxImages    = "FOLIO_MAX_IMAGES"
	EnvMaxImageSize = "FOLIO_MAX_IMAGE_SIZE"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFormat    = "LOG_FORMAT"
	EnvChatProvider = "CHAT_PROVIDER"
	EnvChatModel    = "CHAT_MODEL"
	EnvChatStore    = "CHAT_STORE"
)

type Config struct {
	API     APIConfig      `toml:"api"`
	Server  ServerConfig   `toml:"server"`
	Images  ImagesConfig   `toml:"images"`
	Chat    ChatConfig     `toml:"chat"`
	Logging logging.Config `toml:"logging"`
}

// APIConfig points at the remote portfolio API
type APIConfig struct {
	URL     string `toml:"url"`
	Token   string `toml:"token"`
	Timeout string `toml:"timeout"`
}

func (c *APIConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

type ServerConfig struct {
	Port       int    `toml:"port"`
	PreviewDir string `toml:"preview_dir"`
}

// ImagesConfig bounds what a draft may hold. MaxSize is a human size such as "2MiB".
type ImagesConfig struct {
	MaxCount     int      `toml:"max_count"`
	MaxSize      string   `toml:"max_size"`
	AllowedTypes []string `toml:"allowed_types"`
}

// Limits converts the settings into validator limits. Finalize must have succeeded.
func (c *ImagesConfig) Limits() media.Limits {
	size, _ := units.RAMInBytes(c.MaxSize)
	return media.Limits{
		MaxCount:     c.MaxCount,
		MaxSizeBytes: size,
		AllowedTypes: append([]string(nil), c.AllowedTypes...),
	}
}

type ChatConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	Store       string  `toml:"store"`
}

// Load reads path, or DefaultConfigFile when path is empty. A missing default file
// is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Logging.Finalize(&logging.Env{Level: EnvLogLevel, Format: EnvLogFormat}); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay that differ from zero values
func (c *Config) Merge(overlay *Config) {
	if overlay.API.URL != "" {
		c.API.URL = overlay.API.URL
	}
	if overlay.API.Token != "" {
		c.API.Token = overlay.API.Token
	}
	if overlay.API.Timeout != "" {
		c.API.Timeout = overlay.API.Timeout
	}
	if overlay.Server.Port != 0 {
		c.Server.Port = overlay.Server.Port
	}
	if overlay.Server.PreviewDir != "" {
		c.Server.PreviewDir = overlay.Server.PreviewDir
	}
	if overlay.Images.MaxCount != 0 {
		c.Images.MaxCount = overlay.Images.MaxCount
	}
	if overlay.Images.MaxSize != "" {
		c.Images.MaxSize = overlay.Images.MaxSize
	}
	if len(overlay.Images.AllowedTypes) > 0 {
		c.Images.AllowedTypes = overlay.Images.AllowedTypes
	}
	if overlay.Chat.Provider != "" {
		c.Chat.Provider = overlay.Chat.Provider
	}
	if overlay.Chat.Model != "" {
		c.Chat.Model = overlay.Chat.Model
	}
	if overlay.Chat.Temperature != 0 {
		c.Chat.Temperature = overlay.Chat.Temperature
	}
	if overlay.Chat.Store != "" {
		c.Chat.Store = overlay.Chat.Store
	}
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) loadDefaults() {
	if c.API.URL == "" {
		c.API.URL = portfolio.DefaultBaseURL
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "30s"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8888
	}
	if c.Server.PreviewDir == "" {
		c.Server.PreviewDir = "./previews"
	}
	if c.Images.MaxCount == 0 {
		c.Images.MaxCount = media.DefaultMaxCount
	}
	if c.Images.MaxSize == "" {
		c.Images.MaxSize = units.BytesSize(media.DefaultMaxSizeBytes)
	}
	if len(c.Images.AllowedTypes) == 0 {
		c.Images.AllowedTypes = append([]string(nil), media.DefaultAllowedTypes...)
	}
	if c.Chat.Provider == "" {
		c.Chat.Provider = "gemini"
	}
	if c.Chat.Temperature == 0 {
		c.Chat.Temperature = 0.7
	}
	if c.Chat.Store == "" {
		c.Chat.Store = "chat_sessions.yaml"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv(EnvAPITimeout); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv(EnvPreviewDir); v != "" {
		c.Server.PreviewDir = v
	}
	if v := os.Getenv(EnvMaxImages); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Images.MaxCount = n
		}
	}
	if v := os.Getenv(EnvMaxImageSize); v != "" {
		c.Images.MaxSize = v
	}
	if v := os.Getenv(EnvChatProvider); v != "" {
		c.Chat.Provider = v
	}
	if v := os.Getenv(EnvChatModel); v != "" {
		c.Chat.Model = v
	}
	if v := os.Getenv(EnvChatStore); v != "" {
		c.Chat.Store = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		return fmt.Errorf("invalid api timeout: %w", err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Images.MaxCount < 1 {
		return fmt.Errorf("images max_count must be positive")
	}
	size, err := units.RAMInBytes(c.Images.MaxSize)
	if err != nil {
		return fmt.Errorf("invalid images max_size: %w", err)
	}
	if size < 1 {
		return fmt.Errorf("images max_size must be positive")
	}
	switch c.Chat.Provider {
	case "gemini", "openai", "ollama":
	default:
		return fmt.Errorf("unsupported chat provider: %s (must be gemini, openai, or ollama)", c.Chat.Provider)
	}
	return nil
}
