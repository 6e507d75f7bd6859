// Package config loads and normalises UI server configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/Its-donkey/tms-ui/internal/ui/model"
)

const (
	defaultAddr     = "127.0.0.1"
	defaultPort     = "4173"
	defaultAssets   = "ui"
	defaultName     = "TMS"
	defaultLogLevel = "info"

	defaultThemeKey  = "theme"
	defaultLightHref = "/css/theme-light.css"
	defaultDarkHref  = "/css/theme-dark.css"
	defaultTokenKey  = "accessToken"

	defaultNoticeMS = 5000

	envPrefix = "TMS_UI_"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr          string `json:"addr"`
	Port          string `json:"port"`
	SecureCookies bool   `json:"secure_cookies"`
}

// AppConfig configures assets and logging. An empty LogDir logs to stdout only.
type AppConfig struct {
	Name     string `json:"name"`
	Assets   string `json:"assets"`
	LogLevel string `json:"log_level"`
	LogDir   string `json:"log_dir"`
}

// ThemeConfig selects the theme marker variant and where the preference lives.
type ThemeConfig struct {
	Mode       model.ThemeMode `json:"mode"`
	StorageKey string          `json:"storage_key"`
	LightHref  string          `json:"light_href"`
	DarkHref   string          `json:"dark_href"`
}

// AuthConfig names the key the access token is stored under.
type AuthConfig struct {
	TokenKey string `json:"token_key"`
}

// NotificationConfig configures server-rendered flash notices.
type NotificationConfig struct {
	DefaultDurationMS int `json:"default_duration_ms"`
}

// Config represents the combined runtime settings parsed from config.json.
type Config struct {
	Server        ServerConfig       `json:"server"`
	App           AppConfig          `json:"app"`
	Theme         ThemeConfig        `json:"theme"`
	Auth          AuthConfig         `json:"auth"`
	Notifications NotificationConfig `json:"notifications"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{}
	cfg.normalise()
	return cfg
}

// Load reads the JSON config at path, fills defaults and applies TMS_UI_*
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalise() {
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	c.Server.Port = strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")
	if c.Server.Port == "" {
		c.Server.Port = defaultPort
	}
	if c.App.Name == "" {
		c.App.Name = defaultName
	}
	if c.App.Assets == "" {
		c.App.Assets = defaultAssets
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = defaultLogLevel
	}
	c.Theme.Mode = model.ThemeMode(strings.ToLower(strings.TrimSpace(string(c.Theme.Mode))))
	if c.Theme.Mode == "" {
		c.Theme.Mode = model.ThemeModeClass
	}
	if c.Theme.StorageKey == "" {
		c.Theme.StorageKey = defaultThemeKey
	}
	if c.Theme.LightHref == "" {
		c.Theme.LightHref = defaultLightHref
	}
	if c.Theme.DarkHref == "" {
		c.Theme.DarkHref = defaultDarkHref
	}
	if c.Auth.TokenKey == "" {
		c.Auth.TokenKey = defaultTokenKey
	}
	if c.Notifications.DefaultDurationMS <= 0 {
		c.Notifications.DefaultDurationMS = defaultNoticeMS
	}
}

// Validate rejects settings the UI cannot honour.
func (c Config) Validate() error {
	if !c.Theme.Mode.Valid() {
		return fmt.Errorf("theme mode %q: must be %q or %q", c.Theme.Mode, model.ThemeModeClass, model.ThemeModeStylesheet)
	}
	if c.Theme.StorageKey == c.Auth.TokenKey {
		return fmt.Errorf("theme storage key and token key are both %q", c.Theme.StorageKey)
	}
	return nil
}

// ListenAddr joins the address and port.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Addr, c.Server.Port)
}

func applyEnv(cfg *Config) error {
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	setString("ADDR", &cfg.Server.Addr)
	setString("PORT", &cfg.Server.Port)
	setString("ASSETS", &cfg.App.Assets)
	setString("LOG_LEVEL", &cfg.App.LogLevel)
	setString("LOG_DIR", &cfg.App.LogDir)
	setString("THEME_KEY", &cfg.Theme.StorageKey)
	setString("TOKEN_KEY", &cfg.Auth.TokenKey)

	var mode string
	setString("THEME_MODE", &mode)
	if mode != "" {
		cfg.Theme.Mode = model.ThemeMode(mode)
	}

	if v, ok := os.LookupEnv(envPrefix + "SECURE_COOKIES"); ok && v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %sSECURE_COOKIES: %w", envPrefix, err)
		}
		cfg.Server.SecureCookies = secure
	}
	return nil
}
