package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Playback.PulsesPerBeat != 64 || cfg.Playback.Tempo != 120 {
		t.Errorf("defaults = %+v", cfg.Playback)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.Output.PortName = "IAC"
	cfg.Generate.Seed = 99
	cfg.Debug = true
	if err := cfg.SaveFile(path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Output.PortName != "IAC" || got.Generate.Seed != 99 || !got.Debug {
		t.Errorf("loaded %+v", got)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"playback": {"pulsesPerBeat": 32, "tempo": 90}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Playback.PulsesPerBeat != 32 || cfg.Generate.Beats != 48 {
		t.Errorf("loaded %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero resolution", func(c *Config) { c.Playback.PulsesPerBeat = 0 }},
		{"negative tempo", func(c *Config) { c.Playback.Tempo = -1 }},
		{"no beats", func(c *Config) { c.Generate.Beats = 0 }},
		{"no voices", func(c *Config) { c.Generate.Voices = -2 }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v", tt.name, err)
		}
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"playback": {"pulsesPerBeat": -4}}`), 0644)
	if _, err := LoadFile(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("LoadFile of invalid config err = %v", err)
	}
}
