// Package config loads runtime settings from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Engine names accepted for app.engine.
const (
	EngineChrome = "chrome"
	EngineNative = "native"
)

// Config holds application configuration.
type Config struct {
	Window WindowConfig
	App    AppConfig
	IPC    IPCConfig
	Bridge BridgeConfig
	Chrome ChromeConfig
}

// WindowConfig holds initial window parameters.
type WindowConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	Frameless bool
	Debug     bool
}

// AppConfig holds content and engine selection.
type AppConfig struct {
	Root   string
	URL    string
	Engine string
}

// IPCConfig holds transport limits.
type IPCConfig struct {
	MaxFrameBytes uint32 `mapstructure:"max_frame_bytes"`
}

// BridgeConfig holds RPC bridge settings.
type BridgeConfig struct {
	PendingTTLMS int `mapstructure:"pending_ttl_ms"`
}

// ChromeConfig holds out-of-process shell settings.
type ChromeConfig struct {
	Binary string
}

// Load reads configuration from file and env. Env var overrides use prefix PYTRON_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("window.title", "Pytron")
	v.SetDefault("window.width", 800)
	v.SetDefault("window.height", 600)
	v.SetDefault("window.resizable", true)
	v.SetDefault("window.frameless", false)
	v.SetDefault("window.debug", false)
	v.SetDefault("app.root", ".")
	v.SetDefault("app.url", "")
	v.SetDefault("app.engine", EngineChrome)
	v.SetDefault("ipc.max_frame_bytes", 16<<20)
	v.SetDefault("bridge.pending_ttl_ms", 120_000)
	v.SetDefault("chrome.binary", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PYTRON_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "pytron"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PYTRON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func validate(c Config) error {
	if c.App.Engine != EngineChrome && c.App.Engine != EngineNative {
		return fmt.Errorf("app.engine must be %q or %q, got %q", EngineChrome, EngineNative, c.App.Engine)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.IPC.MaxFrameBytes == 0 {
		return fmt.Errorf("ipc.max_frame_bytes must be positive")
	}
	if c.Bridge.PendingTTLMS <= 0 {
		return fmt.Errorf("bridge.pending_ttl_ms must be positive")
	}
	return nil
}
