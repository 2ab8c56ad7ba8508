package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrInvalid = errors.New("invalid config")

// OutputConfig selects the MIDI output port
type OutputConfig struct {
	PortName string `json:"portName,omitempty"` // substring match; empty = first port
}

// PlaybackConfig sets the pulse resolution and pacing
type PlaybackConfig struct {
	PulsesPerBeat int     `json:"pulsesPerBeat"`
	Tempo         float64 `json:"tempo"` // beats per minute
}

// GenerateConfig drives the generative pipeline
type GenerateConfig struct {
	Seed   uint64 `json:"seed"`
	Beats  int    `json:"beats"`
	Voices int    `json:"voices"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // path to a GIMP palette
}

// Config is the main configuration structure
type Config struct {
	Output   OutputConfig   `json:"output,omitempty"`
	Playback PlaybackConfig `json:"playback"`
	Generate GenerateConfig `json:"generate"`
	UI       UIConfig       `json:"ui,omitempty"`
	Debug    bool           `json:"debug,omitempty"`
	DebugLog string         `json:"debugLog,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Playback: PlaybackConfig{
			PulsesPerBeat: 64,
			Tempo:         120,
		},
		Generate: GenerateConfig{
			Seed:   1,
			Beats:  48,
			Voices: 4,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pulsator"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from ConfigPath, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Missing fields keep their defaults and a
// missing file yields DefaultConfig.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Playback.PulsesPerBeat <= 0:
		return fmt.Errorf("%w: pulsesPerBeat %d", ErrInvalid, c.Playback.PulsesPerBeat)
	case c.Playback.Tempo < 0:
		return fmt.Errorf("%w: tempo %g", ErrInvalid, c.Playback.Tempo)
	case c.Generate.Beats <= 0:
		return fmt.Errorf("%w: beats %d", ErrInvalid, c.Generate.Beats)
	case c.Generate.Voices <= 0:
		return fmt.Errorf("%w: voices %d", ErrInvalid, c.Generate.Voices)
	}
	return nil
}

// Save writes the config to ConfigPath
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
