package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/lixenwraith/cardfx/card"
)

// EnvPrefix prefixes every environment override, CARDFX_DISPLAY_FPS maps to display.fps
const EnvPrefix = "CARDFX"

// Config holds all host configuration
type Config struct {
	Display DisplayConfig `mapstructure:"display"`
	Log     LogConfig     `mapstructure:"log"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Preview PreviewConfig `mapstructure:"preview"`
	Cards   []CardSpec    `mapstructure:"cards"`
}

type DisplayConfig struct {
	FPS     int    `mapstructure:"fps"`
	Columns int    `mapstructure:"columns"` // grid columns, zero fits as many as the width allows
	MinCols int    `mapstructure:"min_cols"`
	Seed    uint64 `mapstructure:"seed"` // zero seeds every card from the clock
	Titles  bool   `mapstructure:"titles"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // terminal mode only
}

type AudioConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Volume     float64 `mapstructure:"volume"` // linear gain, zero is unit gain
	SampleRate int     `mapstructure:"sample_rate"`
}

type PreviewConfig struct {
	Addr   string `mapstructure:"addr"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	FPS    int    `mapstructure:"fps"`
}

// Options locate the configuration sources
type Options struct {
	Path    string // TOML or YAML file, empty uses defaults and environment only
	EnvFile string // dotenv file, missing files are ignored
}

// Manager handles config loading and hot-reload
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	viper    *viper.Viper
	path     string
	log      zerolog.Logger
	onChange func(*Config)
	override func(*Config) // reapplied after every reload
}

// NewManager loads configuration from opts
func NewManager(opts Options, log zerolog.Logger) (*Manager, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.Path, err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	return &Manager{
		config: cfg,
		viper:  v,
		path:   opts.Path,
		log:    log,
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("display.fps", 30)
	v.SetDefault("display.columns", 0)
	v.SetDefault("display.min_cols", 24)
	v.SetDefault("display.seed", 0)
	v.SetDefault("display.titles", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "cardfx.log")
	v.SetDefault("audio.enabled", false)
	v.SetDefault("audio.volume", 0)
	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("preview.addr", "127.0.0.1:8088")
	v.SetDefault("preview.width", 320)
	v.SetDefault("preview.height", 200)
	v.SetDefault("preview.fps", 20)
}

// decode unmarshals and validates every card entry against the presets
func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Display.FPS <= 0 {
		return nil, fmt.Errorf("display.fps: must be positive, got %d", cfg.Display.FPS)
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	for i, spec := range cfg.Cards {
		if _, err := spec.Resolve(cfg.Display.Seed); err != nil {
			return nil, fmt.Errorf("cards[%d]: %w", i, err)
		}
	}
	return &cfg, nil
}

// Get returns the current config (thread-safe)
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// SetLogger replaces the logger used by the watcher
func (m *Manager) SetLogger(log zerolog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = log
}

// SetOverrides applies fn to the current config and to every reloaded one
func (m *Manager) SetOverrides(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.override = fn
	if fn == nil {
		return
	}
	next := *m.config
	fn(&next)
	m.config = &next
}

// SetOnChange registers a callback for config changes, invoked from the watcher goroutine
func (m *Manager) SetOnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Watch starts hot-reloading the config file, no-op without a file
func (m *Manager) Watch() {
	if m.path == "" {
		return
	}
	m.viper.OnConfigChange(func(e fsnotify.Event) {
		m.mu.RLock()
		log := m.log
		m.mu.RUnlock()
		log.Info().Str("file", e.Name).Str("op", e.Op.String()).Msg("config file changed, reloading")
		if err := m.Reload(); err != nil {
			log.Error().Err(err).Msg("config reload rejected, keeping previous")
		}
	})
	m.viper.WatchConfig()
}

// Reload re-reads the file; an invalid file leaves the current config in place
func (m *Manager) Reload() error {
	m.mu.Lock()
	if m.path != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("read config %s: %w", m.path, err)
		}
	}
	cfg, err := decode(m.viper)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if m.override != nil {
		m.override(cfg)
	}
	m.config = cfg
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(cfg)
	}
	return nil
}

// Level returns the configured log level, info when unparsable
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// CardSpecs returns the configured cards, one per preset when none are listed
func (c *Config) CardSpecs() []CardSpec {
	if len(c.Cards) > 0 {
		return c.Cards
	}
	names := card.PresetNames()
	specs := make([]CardSpec, len(names))
	for i, name := range names {
		specs[i] = CardSpec{Title: name, Preset: name}
	}
	return specs
}

// FrameInterval returns the display frame period
func (d DisplayConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(max(d.FPS, 1))
}
