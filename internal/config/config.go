package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"daylist/internal/alert"
	"daylist/internal/tasks/api"
)

const (
	EnvAPIURL  = "DAYLIST_API_URL"
	EnvToken   = "DAYLIST_TOKEN"
	EnvTimeout = "DAYLIST_TIMEOUT"
)

// Config holds the unified application configuration
type Config struct {
	APIURL          string
	Token           string
	Timeout         time.Duration
	ToastDuration   time.Duration
	UndoToastSticky bool
	WeekStart       time.Weekday

	// Path is the config file the values were read from.
	Path string
}

// Settings represents the config file structure
type Settings struct {
	APIURL          string `yaml:"api_url,omitempty"`
	Token           string `yaml:"token,omitempty"`
	Timeout         string `yaml:"timeout,omitempty"`
	ToastDuration   string `yaml:"toast_duration,omitempty"`
	UndoToastSticky *bool  `yaml:"undo_toast_sticky,omitempty"`
	WeekStart       string `yaml:"week_start,omitempty"`
}

// CLIFlags holds parsed CLI flags
type CLIFlags struct {
	ConfigPath string
	APIURL     string
	Token      string
	Timeout    time.Duration
}

var globalConfig *Config

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		APIURL:          api.DefaultBaseURL,
		Timeout:         api.DefaultTimeout,
		ToastDuration:   alert.DefaultDuration,
		UndoToastSticky: true,
		WeekStart:       time.Monday,
	}
}

// Load loads configuration with priority: CLI flags > env vars > config file > default
func Load(flags CLIFlags) (*Config, error) {
	cfg := Defaults()

	configPath := flags.ConfigPath
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}
	cfg.Path = expandPath(configPath)

	settings, err := loadConfigFile(cfg.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := cfg.apply(settings); err != nil {
			return nil, fmt.Errorf("config %s: %w", cfg.Path, err)
		}
	}

	// Priority 2: Environment variables override config file
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}

	// Priority 1: CLI flags override everything
	if flags.APIURL != "" {
		cfg.APIURL = flags.APIURL
	}
	if flags.Token != "" {
		cfg.Token = flags.Token
	}
	if flags.Timeout > 0 {
		cfg.Timeout = flags.Timeout
	}

	globalConfig = cfg
	return cfg, nil
}

func (c *Config) apply(s *Settings) error {
	if s.APIURL != "" {
		c.APIURL = s.APIURL
	}
	if s.Token != "" {
		c.Token = s.Token
	}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	if s.ToastDuration != "" {
		d, err := time.ParseDuration(s.ToastDuration)
		if err != nil {
			return fmt.Errorf("toast_duration: %w", err)
		}
		c.ToastDuration = d
	}
	if s.UndoToastSticky != nil {
		c.UndoToastSticky = *s.UndoToastSticky
	}
	if s.WeekStart != "" {
		wd, err := ParseWeekday(s.WeekStart)
		if err != nil {
			return err
		}
		c.WeekStart = wd
	}
	return nil
}

// Get returns the loaded config
func Get() *Config {
	return globalConfig
}

// Dir is the directory holding the config file, also used for the debug log.
func (c *Config) Dir() string {
	return filepath.Dir(c.Path)
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("invalid week_start %q", s)
}

// DefaultConfigPath returns the path to the configuration file
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "daylist", "config.yaml"), nil
}

// loadConfigFile loads configuration from the settings file
func loadConfigFile(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &settings, nil
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist
func EnsureConfigFile(path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	path = expandPath(path)

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	def := Defaults()
	sticky := def.UndoToastSticky
	settings := Settings{
		APIURL:          def.APIURL,
		Timeout:         def.Timeout.String(),
		ToastDuration:   def.ToastDuration.String(),
		UndoToastSticky: &sticky,
		WeekStart:       strings.ToLower(def.WeekStart.String()),
	}

	raw, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	return atomic.WriteFile(path, bytes.NewReader(raw))
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
