// Package config loads game settings from defaults, a .env file, an optional
// YAML file and environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/outbackcafe/internal/engine"
	"github.com/hammamikhairi/outbackcafe/internal/kitchen"
)

// Environment overrides.
const (
	EnvDBPath     = "OUTBACK_DB_PATH"
	EnvLevelsFile = "OUTBACK_LEVELS_FILE"
	EnvLogLevel   = "OUTBACK_LOG_LEVEL"
	EnvSound      = "OUTBACK_SOUND"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the full game configuration, read from YAML with env overrides.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Audio   AudioConfig   `yaml:"audio"`
	Voice   VoiceConfig   `yaml:"voice"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig holds level timing, scoring and spawn settings.
type GameConfig struct {
	LevelTime     time.Duration `yaml:"level_time"`
	Required      int           `yaml:"required_points"`
	ThresholdStep int           `yaml:"threshold_step"`
	PointsPerMeal int           `yaml:"points_per_meal"`
	AngryPenalty  int           `yaml:"angry_penalty"`
	ProcessDelay  time.Duration `yaml:"processor_delay"`
	ResolveDelay  time.Duration `yaml:"resolve_delay"`
	PatienceTick  time.Duration `yaml:"patience_tick"`
	SpawnMin      time.Duration `yaml:"spawn_min"`
	SpawnMax      time.Duration `yaml:"spawn_max"`
	WaveSize      int           `yaml:"wave_size"`
	LevelsFile    string        `yaml:"levels_file"`
	FrameRate     time.Duration `yaml:"frame"` // real-time driver period
}

// StorageConfig selects the key-value store backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "memory" or "sqlite"
	Path   string `yaml:"path"`
}

// AudioConfig controls sound effect playback.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"` // 0..1
	SampleRate int     `yaml:"sample_rate"`
}

// VoiceConfig controls voice command capture and transcription.
type VoiceConfig struct {
	Enabled    bool          `yaml:"enabled"`
	WhisperBin string        `yaml:"whisper_bin"`
	Model      string        `yaml:"model"`
	TempDir    string        `yaml:"temp_dir"`
	Chunk      time.Duration `yaml:"chunk"`
}

// LogConfig sets log verbosity and destination.
type LogConfig struct {
	Level string `yaml:"level"` // off, normal, verbose
	File  string `yaml:"file"`  // "stderr" logs to the console
}

// Load builds the configuration. A missing config file or .env is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if env := os.Getenv(EnvDBPath); env != "" {
		cfg.Storage.Path = env
		cfg.Storage.Driver = DriverSQLite
	}
	if env := os.Getenv(EnvLevelsFile); env != "" {
		cfg.Game.LevelsFile = env
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		cfg.Log.Level = env
	}
	if env := os.Getenv(EnvSound); env != "" {
		on, err := strconv.ParseBool(env)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSound, err)
		}
		cfg.Audio.Enabled = on
	}
	return nil
}

// Defaults returns the stock configuration.
func Defaults() *Config {
	eng := engine.DefaultConfig()
	k := eng.Kitchen
	return &Config{
		Game: GameConfig{
			LevelTime:     eng.LevelTime,
			Required:      eng.Required,
			ThresholdStep: eng.ThresholdStep,
			PointsPerMeal: k.PointsPerMeal,
			AngryPenalty:  k.AngryPenalty,
			ProcessDelay:  k.ProcessDelay,
			ResolveDelay:  k.ResolveDelay,
			PatienceTick:  k.PatienceTick,
			SpawnMin:      eng.SpawnMin,
			SpawnMax:      eng.SpawnMax,
			WaveSize:      eng.WaveSize,
			FrameRate:     50 * time.Millisecond,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   ".outback/outback.db",
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     0.4,
			SampleRate: 44100,
		},
		Voice: VoiceConfig{
			WhisperBin: "whisper-cli",
			Model:      "bin/ggml-base.en.bin",
			TempDir:    ".outback-stt",
			Chunk:      2 * time.Second,
		},
		Log: LogConfig{
			Level: "normal",
			File:  ".outback-logs/outback.log",
		},
	}
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	g := c.Game
	switch {
	case g.LevelTime < time.Second:
		return fmt.Errorf("game.level_time must be at least 1s, got %s", g.LevelTime)
	case g.Required <= 0:
		return fmt.Errorf("game.required_points must be positive, got %d", g.Required)
	case g.SpawnMin <= 0 || g.SpawnMax < g.SpawnMin:
		return fmt.Errorf("game.spawn_min/spawn_max must satisfy 0 < min <= max, got %s/%s", g.SpawnMin, g.SpawnMax)
	case g.ProcessDelay <= 0 || g.ResolveDelay <= 0 || g.PatienceTick <= 0:
		return fmt.Errorf("game delays must be positive")
	case g.WaveSize <= 0:
		return fmt.Errorf("game.wave_size must be positive, got %d", g.WaveSize)
	case g.AngryPenalty < 0:
		return fmt.Errorf("game.angry_penalty must not be negative, got %d", g.AngryPenalty)
	case g.FrameRate <= 0:
		return fmt.Errorf("game.frame must be positive, got %s", g.FrameRate)
	}

	switch strings.ToLower(c.Storage.Driver) {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be within [0, 1], got %v", c.Audio.Volume)
	}
	if c.Voice.Enabled && c.Voice.Chunk <= 0 {
		return fmt.Errorf("voice.chunk must be positive when voice is enabled")
	}
	return nil
}

// Engine returns the level controller settings.
func (c *Config) Engine() engine.Config {
	g := c.Game
	cfg := engine.DefaultConfig()
	cfg.LevelTime = g.LevelTime
	cfg.Required = g.Required
	cfg.ThresholdStep = g.ThresholdStep
	cfg.SpawnMin = g.SpawnMin
	cfg.SpawnMax = g.SpawnMax
	cfg.WaveSize = g.WaveSize
	cfg.Kitchen = kitchen.Config{
		ProcessDelay:  g.ProcessDelay,
		ResolveDelay:  g.ResolveDelay,
		PatienceTick:  g.PatienceTick,
		PointsPerMeal: g.PointsPerMeal,
		AngryPenalty:  g.AngryPenalty,
		PlateCapacity: cfg.Kitchen.PlateCapacity,
	}
	return cfg
}
