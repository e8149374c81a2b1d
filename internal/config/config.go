// Package config loads tilegrid settings from a config file, TILEGRID_
// environment variables and defaults, and watches the file for changes.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/samuelreed/tilegrid/internal/layout"
	"github.com/samuelreed/tilegrid/internal/wm"
)

const (
	configName = "config"
	configDir  = "tilegrid"
	envPrefix  = "TILEGRID"
)

// Config is the full tilegrid configuration.
type Config struct {
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout"`
	Timing TimingConfig `mapstructure:"timing" yaml:"timing"`
	Panel  PanelConfig  `mapstructure:"panel" yaml:"panel"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Docker DockerConfig `mapstructure:"docker" yaml:"docker"`
	Demo   DemoConfig   `mapstructure:"demo" yaml:"demo"`
}

// LayoutConfig is the grid section. Offsets accept a number or a list, and
// col_spans_by_row maps a row to a column count, a list of spans, or "rest".
type LayoutConfig struct {
	Rows          int            `mapstructure:"rows" yaml:"rows"`
	Cols          int            `mapstructure:"cols" yaml:"cols"`
	PerPage       int            `mapstructure:"per_page" yaml:"per_page"`
	Gutters       GuttersConfig  `mapstructure:"gutters" yaml:"gutters"`
	Offsets       OffsetsConfig  `mapstructure:"offsets" yaml:"offsets"`
	ColSpansByRow map[string]any `mapstructure:"col_spans_by_row" yaml:"col_spans_by_row,omitempty"`
	PanelGrid     *OffsetsConfig `mapstructure:"panel_grid" yaml:"panel_grid,omitempty"`
}

type GuttersConfig struct {
	Horizontal int `mapstructure:"horizontal" yaml:"horizontal"`
	Vertical   int `mapstructure:"vertical" yaml:"vertical"`
}

type OffsetsConfig struct {
	Height any `mapstructure:"height" yaml:"height,omitempty"`
	Width  any `mapstructure:"width" yaml:"width,omitempty"`
	X      any `mapstructure:"x" yaml:"x,omitempty"`
	Y      any `mapstructure:"y" yaml:"y,omitempty"`
}

// TimingConfig holds the input pacing windows.
type TimingConfig struct {
	ResizeDebounce    time.Duration `mapstructure:"resize_debounce" yaml:"resize_debounce"`
	FocusThrottle     time.Duration `mapstructure:"focus_throttle" yaml:"focus_throttle"`
	PageThrottle      time.Duration `mapstructure:"page_throttle" yaml:"page_throttle"`
	ActivationStagger time.Duration `mapstructure:"activation_stagger" yaml:"activation_stagger"`
}

// PanelConfig orders the children of a panel grid.
type PanelConfig struct {
	Primary  string   `mapstructure:"primary" yaml:"primary"`
	Priority []string `mapstructure:"priority" yaml:"priority"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DockerConfig selects and streams containers.
type DockerConfig struct {
	Project       string        `mapstructure:"project" yaml:"project"`
	All           bool          `mapstructure:"all" yaml:"all"`
	Tail          int           `mapstructure:"tail" yaml:"tail"`
	StatsInterval time.Duration `mapstructure:"stats_interval" yaml:"stats_interval"`
	InfoInterval  time.Duration `mapstructure:"info_interval" yaml:"info_interval"`
	Panels        bool          `mapstructure:"panels" yaml:"panels"`
}

// DemoConfig shapes the synthetic source.
type DemoConfig struct {
	Panes    int           `mapstructure:"panes" yaml:"panes"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// setDefaults registers every key, which also lets TILEGRID_ variables
// override keys absent from the file.
func setDefaults(v *viper.Viper) {
	order := layout.DefaultPanelOrder()

	v.SetDefault("layout.rows", 0)
	v.SetDefault("layout.cols", layout.DefaultCols)
	v.SetDefault("layout.per_page", layout.DefaultPerPage)
	v.SetDefault("layout.gutters.horizontal", 0)
	v.SetDefault("layout.gutters.vertical", 0)

	v.SetDefault("timing.resize_debounce", wm.DefaultResizeDebounce)
	v.SetDefault("timing.focus_throttle", wm.DefaultFocusThrottle)
	v.SetDefault("timing.page_throttle", wm.DefaultPageThrottle)
	v.SetDefault("timing.activation_stagger", 50*time.Millisecond)

	v.SetDefault("panel.primary", order.Primary)
	v.SetDefault("panel.priority", order.Priority)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("docker.project", "")
	v.SetDefault("docker.all", false)
	v.SetDefault("docker.tail", 200)
	v.SetDefault("docker.stats_interval", 2*time.Second)
	v.SetDefault("docker.info_interval", 5*time.Second)
	v.SetDefault("docker.panels", true)

	v.SetDefault("demo.panes", 6)
	v.SetDefault("demo.interval", time.Second)
}

// Dir returns the config directory ($XDG_CONFIG_HOME/tilegrid).
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, configDir), nil
}

// Loader reads the configuration and reloads it when the file changes.
type Loader struct {
	v    *viper.Viper
	path string
	log  *slog.Logger

	mu       sync.Mutex
	cfg      *Config
	watching bool
}

// NewLoader returns a loader for path. An empty path searches the config
// directory, then the working directory, for config.yaml (or .toml, .json).
func NewLoader(path string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return &Loader{v: v, path: path, log: log}
}

// Load reads and validates the configuration. A missing file is fine unless
// it was named explicitly.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		l.log.Debug("no config file, using defaults")
	}

	cfg, err := l.parse()
	if err != nil {
		return nil, err
	}
	l.cfg = cfg
	return cfg, nil
}

func (l *Loader) parse() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if _, err := cfg.Layout.ToLayout(); err != nil {
		return nil, err
	}
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetLogger replaces the loader's logger. Logging usually depends on the
// loaded config, so the first Load runs before a logger exists.
func (l *Loader) SetLogger(log *slog.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if log != nil {
		l.log = log
	}
}

// File returns the config file in use, or "" when running on defaults.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Current returns the last successfully loaded configuration.
func (l *Loader) Current() *Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

// Watch calls onChange with every valid reload of the config file. Invalid
// edits are logged and the previous configuration stays current. Watching
// without a config file is a no-op.
func (l *Loader) Watch(onChange func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watching || l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.log.Debug("config change detected", "op", e.Op.String(), "file", e.Name)
		cfg, err := l.reload()
		if err != nil {
			l.log.Warn("config reload rejected", "file", e.Name, "error", err)
			return
		}
		l.log.Info("config reloaded", "file", e.Name)
		onChange(cfg)
	})
	l.v.WatchConfig()
	l.watching = true
}

func (l *Loader) reload() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg, err := l.parse()
	if err != nil {
		return nil, err
	}
	l.cfg = cfg
	return cfg, nil
}

// Pacing returns the window manager pacing windows.
func (c *Config) Pacing() wm.Pacing {
	return wm.Pacing{
		ResizeDebounce: c.Timing.ResizeDebounce,
		FocusThrottle:  c.Timing.FocusThrottle,
		PageThrottle:   c.Timing.PageThrottle,
	}
}

// PanelOrder returns the panel grid ordering.
func (c *Config) PanelOrder() layout.PanelOrder {
	return layout.PanelOrder{Primary: c.Panel.Primary, Priority: c.Panel.Priority}
}

// ParseLevel maps a log level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
