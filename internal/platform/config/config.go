package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	apperrors "engagemon/internal/platform/errors"
)

const (
	MinTickSeconds = 1
	MaxTickSeconds = 10
	MaxCapacity    = 100000
)

type Weights struct {
	Engagement float64 `yaml:"engagement" toml:"engagement"`
	Context    float64 `yaml:"context" toml:"context"`
	Sentiment  float64 `yaml:"sentiment" toml:"sentiment"`
}

// Sensor points at an external sensor plugin binary.
type Sensor struct {
	Binary string `yaml:"binary" toml:"binary"`
	SHA256 string `yaml:"sha256" toml:"sha256"`
}

type Config struct {
	Simulated           bool    `yaml:"simulated" toml:"simulated"`
	Seed                uint64  `yaml:"seed" toml:"seed"`
	TickSeconds         int     `yaml:"tick_seconds" toml:"tick_seconds"`
	Capacity            int     `yaml:"capacity" toml:"capacity"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold" toml:"confidence_threshold"`
	ScoreWindow         int     `yaml:"score_window" toml:"score_window"`
	Weights             Weights `yaml:"weights" toml:"weights"`

	AudioEnabled  bool `yaml:"audio_enabled" toml:"audio_enabled"`
	ScreenEnabled bool `yaml:"screen_enabled" toml:"screen_enabled"`
	AutoStart     bool `yaml:"auto_start" toml:"auto_start"`

	Audio  Sensor `yaml:"audio" toml:"audio"`
	Screen Sensor `yaml:"screen" toml:"screen"`

	ExportDir string `yaml:"export_dir" toml:"export_dir"`
	StateDir  string `yaml:"state_dir" toml:"state_dir"`
	LogFile   string `yaml:"log_file" toml:"log_file"`
	LogLevel  string `yaml:"log_level" toml:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	stateDir := defaultStateDir()
	return Config{
		Simulated:           false,
		TickSeconds:         3,
		Capacity:            100,
		ConfidenceThreshold: 0.6,
		ScoreWindow:         10,
		Weights:             Weights{Engagement: 0.3, Context: 0.5, Sentiment: 0.2},
		AudioEnabled:        true,
		ScreenEnabled:       true,
		AutoStart:           true,
		ExportDir:           ".",
		StateDir:            stateDir,
		LogFile:             filepath.Join(stateDir, "engagemon.log"),
		LogLevel:            "info",
	}
}

// TickInterval is the configured tick period.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

// Load builds a config from defaults, the optional file at path, and the
// process environment, then validates it.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

func LoadWithEnv(path string, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return fmt.Errorf("%w: decode %s: %v", apperrors.ErrConfigInvalid, path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return fmt.Errorf("%w: decode %s: %v", apperrors.ErrConfigInvalid, path, err)
		}
	default:
		return fmt.Errorf("%w: unsupported config format %q", apperrors.ErrConfigInvalid, filepath.Ext(path))
	}
	return nil
}

// ApplyEnv overlays ENGAGEMON_* variables. CLOUD_DEPLOYMENT is honoured as an
// alias for ENGAGEMON_SIMULATED.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	lookup := func(name string) (string, bool) {
		v, ok := lookupEnv(name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}
	if v, ok := lookup("CLOUD_DEPLOYMENT"); ok {
		b, err := parseBool("CLOUD_DEPLOYMENT", v)
		if err != nil {
			return err
		}
		c.Simulated = b
	}
	if v, ok := lookup("ENGAGEMON_SIMULATED"); ok {
		b, err := parseBool("ENGAGEMON_SIMULATED", v)
		if err != nil {
			return err
		}
		c.Simulated = b
	}
	if v, ok := lookup("ENGAGEMON_TICK_SECONDS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: ENGAGEMON_TICK_SECONDS=%q", apperrors.ErrConfigInvalid, v)
		}
		c.TickSeconds = n
	}
	if v, ok := lookup("ENGAGEMON_CAPACITY"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: ENGAGEMON_CAPACITY=%q", apperrors.ErrConfigInvalid, v)
		}
		c.Capacity = n
	}
	if v, ok := lookup("ENGAGEMON_CONFIDENCE_THRESHOLD"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: ENGAGEMON_CONFIDENCE_THRESHOLD=%q", apperrors.ErrConfigInvalid, v)
		}
		c.ConfidenceThreshold = f
	}
	if v, ok := lookup("ENGAGEMON_SEED"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: ENGAGEMON_SEED=%q", apperrors.ErrConfigInvalid, v)
		}
		c.Seed = n
	}
	if v, ok := lookup("ENGAGEMON_AUDIO_PLUGIN"); ok {
		c.Audio.Binary = strings.TrimSpace(v)
	}
	if v, ok := lookup("ENGAGEMON_SCREEN_PLUGIN"); ok {
		c.Screen.Binary = strings.TrimSpace(v)
	}
	if v, ok := lookup("ENGAGEMON_EXPORT_DIR"); ok {
		c.ExportDir = strings.TrimSpace(v)
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.TickSeconds < MinTickSeconds || c.TickSeconds > MaxTickSeconds {
		return fmt.Errorf("%w: tick interval must be %d-%d seconds, got %d", apperrors.ErrConfigInvalid, MinTickSeconds, MaxTickSeconds, c.TickSeconds)
	}
	if c.Capacity < 1 || c.Capacity > MaxCapacity {
		return fmt.Errorf("%w: buffer capacity must be 1-%d, got %d", apperrors.ErrConfigInvalid, MaxCapacity, c.Capacity)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence threshold must be within [0,1], got %v", apperrors.ErrConfigInvalid, c.ConfidenceThreshold)
	}
	if c.ScoreWindow < 0 {
		return fmt.Errorf("%w: score window must be non-negative", apperrors.ErrConfigInvalid)
	}
	w := c.Weights
	if w.Engagement < 0 || w.Context < 0 || w.Sentiment < 0 {
		return fmt.Errorf("%w: score weights must be non-negative", apperrors.ErrConfigInvalid)
	}
	if w.Engagement+w.Context+w.Sentiment == 0 {
		return fmt.Errorf("%w: at least one score weight must be positive", apperrors.ErrConfigInvalid)
	}
	if c.ExportDir == "" {
		return fmt.Errorf("%w: export dir is required", apperrors.ErrConfigInvalid)
	}
	return nil
}

func parseBool(name, v string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", apperrors.ErrConfigInvalid, name, v)
	}
	return b, nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "engagemon")
	}
	return ".engagemon"
}
