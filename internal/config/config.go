package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ytget/tnadl/downloader"
	"github.com/ytget/tnadl/internal/logger"
	"github.com/ytget/tnadl/pkg/client"
	"github.com/ytget/tnadl/tnaflix/player"
)

const (
	appDirName     = "tnadl"
	configFileName = "config.toml"
	envPrefix      = "TNADL_"
)

// Config holds every setting the CLI and library facade need.
type Config struct {
	BaseURL        string           `toml:"base_url"`
	UserAgent      string           `toml:"user_agent"`
	TimeoutSeconds int              `toml:"timeout_seconds"`
	Retries        int              `toml:"retries"`
	Proxy          string           `toml:"proxy"`
	OutputDir      string           `toml:"output_dir"`
	Transfer       string           `toml:"transfer"`
	ChunkSize      int              `toml:"chunk_size"`
	Lock           bool             `toml:"lock"`
	Log            logger.LogConfig `toml:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:        player.DefaultBaseURL,
		TimeoutSeconds: 15,
		Retries:        1,
		OutputDir:      ".",
		Transfer:       downloader.ModeResumable.String(),
		ChunkSize:      downloader.DefaultChunkSize,
		Lock:           true,
		Log:            *logger.DefaultLogConfig(),
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/tnadl/config.toml, or the
// platform equivalent.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// Load reads the file at path (or the default path when empty), applies
// environment overrides and validates the result. A missing file is not an
// error; the returned bool reports whether one was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, "", false, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		def, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = def
	} else {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		path = expanded
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", path)
	}
	return path, true, nil
}

// ApplyEnv overrides fields from TNADL_* environment variables, including
// the TNADL_LOG_* group.
func (c *Config) ApplyEnv() error {
	strVars := map[string]*string{
		"BASE_URL":   &c.BaseURL,
		"USER_AGENT": &c.UserAgent,
		"PROXY":      &c.Proxy,
		"OUTPUT_DIR": &c.OutputDir,
		"TRANSFER":   &c.Transfer,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"TIMEOUT":    &c.TimeoutSeconds,
		"RETRIES":    &c.Retries,
		"CHUNK_SIZE": &c.ChunkSize,
	}
	for name, dst := range intVars {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %q is not an integer", envPrefix, name, v)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(envPrefix + "LOCK"); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sLOCK: %q is not a boolean", envPrefix, v)
		}
		c.Lock = b
	}

	c.Log.ApplyEnv()
	return nil
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Transfer = strings.ToLower(strings.TrimSpace(c.Transfer))
	c.OutputDir = strings.TrimSpace(c.OutputDir)
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if expanded, err := expandPath(c.OutputDir); err == nil {
		c.OutputDir = expanded
	}
}

// Timeout returns the metadata request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TransferMode returns the parsed transfer strategy. Validate guarantees it
// parses.
func (c *Config) TransferMode() downloader.Mode {
	m, _ := downloader.ParseMode(c.Transfer)
	return m
}

// ClientConfig returns the HTTP knobs for pkg/client.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		Timeout:   c.Timeout(),
		Retries:   c.Retries,
		UserAgent: c.UserAgent,
		ProxyURL:  c.Proxy,
	}
}

func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Clean(p), nil
}
