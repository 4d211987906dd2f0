package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"engagemon/internal/platform/config"
	apperrors "engagemon/internal/platform/errors"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadWithEnv("", noEnv)
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.TickInterval() != 3*time.Second || cfg.Capacity != 100 || cfg.ConfidenceThreshold != 0.6 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Simulated {
		t.Fatalf("defaults must select real sources")
	}
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "engagemon.yaml")
	body := "tick_seconds: 5\ncapacity: 50\nweights:\n  engagement: 1\n  context: 0\n  sentiment: 0\naudio:\n  binary: /opt/sensors/audio\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadWithEnv(path, envOf(map[string]string{
		"ENGAGEMON_CAPACITY": "3",
		"CLOUD_DEPLOYMENT":   "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TickSeconds != 5 {
		t.Fatalf("expected file tick seconds, got %d", cfg.TickSeconds)
	}
	if cfg.Capacity != 3 {
		t.Fatalf("expected env capacity override, got %d", cfg.Capacity)
	}
	if !cfg.Simulated {
		t.Fatalf("CLOUD_DEPLOYMENT should select simulated sources")
	}
	if cfg.Audio.Binary != "/opt/sensors/audio" || cfg.Weights.Engagement != 1 {
		t.Fatalf("file values lost: %+v", cfg)
	}
	if cfg.ConfidenceThreshold != 0.6 {
		t.Fatalf("unset values keep defaults, got %v", cfg.ConfidenceThreshold)
	}
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "engagemon.toml")
	body := "simulated = true\nseed = 42\nconfidence_threshold = 0.25\n\n[screen]\nbinary = \"/opt/sensors/screen\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadWithEnv(path, noEnv)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Simulated || cfg.Seed != 42 || cfg.ConfidenceThreshold != 0.25 || cfg.Screen.Binary != "/opt/sensors/screen" {
		t.Fatalf("unexpected toml config: %+v", cfg)
	}
}

func TestLoadRejectsUnknownFieldsAndFormats(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(yamlPath, []byte("tick_secs: 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.LoadWithEnv(yamlPath, noEnv); !errors.Is(err, apperrors.ErrConfigInvalid) {
		t.Fatalf("expected invalid config for unknown yaml key, got %v", err)
	}
	iniPath := filepath.Join(dir, "engagemon.ini")
	if err := os.WriteFile(iniPath, []byte("x=1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.LoadWithEnv(iniPath, noEnv); !errors.Is(err, apperrors.ErrConfigInvalid) {
		t.Fatalf("expected invalid config for ini format, got %v", err)
	}
}

func TestValidateRejectsOutOfRangeSettings(t *testing.T) {
	t.Parallel()
	mutations := map[string]func(*config.Config){
		"tick too small":     func(c *config.Config) { c.TickSeconds = 0 },
		"tick too large":     func(c *config.Config) { c.TickSeconds = 11 },
		"zero capacity":      func(c *config.Config) { c.Capacity = 0 },
		"threshold above 1":  func(c *config.Config) { c.ConfidenceThreshold = 1.5 },
		"negative window":    func(c *config.Config) { c.ScoreWindow = -1 },
		"negative weight":    func(c *config.Config) { c.Weights.Context = -0.1 },
		"all weights zero":   func(c *config.Config) { c.Weights = config.Weights{} },
		"missing export dir": func(c *config.Config) { c.ExportDir = "" },
	}
	for name, mutate := range mutations {
		cfg := config.Default()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, apperrors.ErrConfigInvalid) {
			t.Fatalf("%s: expected ErrConfigInvalid, got %v", name, err)
		}
	}
}

func TestApplyEnvRejectsMalformedNumbers(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	err := cfg.ApplyEnv(envOf(map[string]string{"ENGAGEMON_TICK_SECONDS": "fast"}))
	if !errors.Is(err, apperrors.ErrConfigInvalid) {
		t.Fatalf("expected invalid config, got %v", err)
	}
	cfg = config.Default()
	if err := cfg.ApplyEnv(envOf(map[string]string{"ENGAGEMON_SIMULATED": ""})); err != nil {
		t.Fatalf("empty variables are ignored: %v", err)
	}
}
