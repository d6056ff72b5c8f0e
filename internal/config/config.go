package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything rentdesk needs to reach the catalog API.
type Config struct {
	APIURL         string
	LogDir         string
	LogLevel       string
	PageSize       int
	RequestTimeout time.Duration
}

const (
	defaultConfigPath = "~/.config/rentdesk/config.toml"
	defaultLogDir     = "~/.local/share/rentdesk/logs"
	defaultAPIURL     = "http://localhost:4001/api"
	defaultLogLevel   = "info"
	defaultPageSize   = 20
	defaultEnvFile    = ".env"
)

// Environment variables that override the config file.
const (
	EnvAPIURL   = "RENTDESK_API_URL"
	EnvLogDir   = "RENTDESK_LOG_DIR"
	EnvLogLevel = "RENTDESK_LOG_LEVEL"
)

// Default returns the configuration used when no file or overrides exist.
func Default() Config {
	return Config{
		APIURL:   defaultAPIURL,
		LogDir:   mustExpand(defaultLogDir),
		LogLevel: defaultLogLevel,
		PageSize: defaultPageSize,
	}
}

// Load locates and parses the rentdesk config, then applies environment
// overrides. A missing file falls back to defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		if err := cfg.readFrom(file); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	// A missing .env is the common case; only malformed files are reported.
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", defaultEnvFile, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) readFrom(r io.Reader) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		LogDir         string `toml:"log_dir"`
		LogLevel       string `toml:"log_level"`
		PageSize       int    `toml:"page_size"`
		RequestTimeout string `toml:"request_timeout"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		c.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if raw.PageSize > 0 {
		c.PageSize = raw.PageSize
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("parse config: invalid request_timeout %q", v)
		}
		c.RequestTimeout = d
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogDir)); v != "" {
		c.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// LogPath returns the path to the diagnostics log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/rentdesk.log")
	}
	return filepath.Join(c.LogDir, "rentdesk.log")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
