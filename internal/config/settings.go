package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/snakecore/internal/core/platform"
)

type settingsFile struct {
	MusicVolume float64     `yaml:"music_volume"`
	SoundVolume float64     `yaml:"sound_volume"`
	ControlMode ControlMode `yaml:"control_mode"`
}

// Settings are the player preferences that survive across sessions. Setters
// only mark the store dirty; Save writes it back.
type Settings struct {
	mu    sync.RWMutex
	path  string
	data  settingsFile
	dirty bool
}

func NewSettings(mode ControlMode) *Settings {
	return &Settings{data: settingsFile{MusicVolume: 0.5, SoundVolume: 0.5, ControlMode: mode}}
}

// LoadSettings reads path. A missing file is not an error: defaults are
// returned and Save will create it.
func LoadSettings(path string, fallback ControlMode) (*Settings, error) {
	s := NewSettings(fallback)
	s.path = path

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	s.data.MusicVolume = platform.ClampVolume(s.data.MusicVolume)
	s.data.SoundVolume = platform.ClampVolume(s.data.SoundVolume)
	if _, err := ParseControlMode(string(s.data.ControlMode)); err != nil {
		s.data.ControlMode = fallback
	}
	return s, nil
}

func (s *Settings) Path() string { return s.path }

func (s *Settings) MusicVolume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.MusicVolume
}

func (s *Settings) SetMusicVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.MusicVolume = platform.ClampVolume(v)
	s.dirty = true
}

func (s *Settings) SoundVolume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.SoundVolume
}

func (s *Settings) SetSoundVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.SoundVolume = platform.ClampVolume(v)
	s.dirty = true
}

func (s *Settings) ControlMode() ControlMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ControlMode
}

func (s *Settings) SetControlMode(m ControlMode) error {
	if _, err := ParseControlMode(string(m)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.ControlMode = m
	s.dirty = true
	return nil
}

func (s *Settings) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Save writes the settings when they changed since the last load or save.
// Settings without a path are kept in memory only.
func (s *Settings) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.path == "" {
		return nil
	}

	raw, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.dirty = false
	return nil
}
