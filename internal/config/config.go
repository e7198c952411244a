// Package config holds the engine's tunables (loaded once from YAML at
// start-up) and the small set of player settings persisted between runs.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ControlMode selects how the movement manager turns input into force.
type ControlMode string

const (
	ControlKeyboard ControlMode = "keyboard"
	ControlPointer  ControlMode = "pointer"
)

func ParseControlMode(s string) (ControlMode, error) {
	switch ControlMode(s) {
	case ControlKeyboard, ControlPointer:
		return ControlMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownControlMode, s)
}

// Toggle returns the other mode.
func (m ControlMode) Toggle() ControlMode {
	if m == ControlPointer {
		return ControlKeyboard
	}
	return ControlPointer
}

type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Movement MovementConfig `yaml:"movement"`
	Snake    SnakeConfig    `yaml:"snake"`
	Scenes   ScenesConfig   `yaml:"scenes"`
	Audio    AudioConfig    `yaml:"audio"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
	// Output is a file path; empty means stderr.
	Output string `yaml:"output"`
}

type Vector struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type PhysicsConfig struct {
	// TimeStep is the fixed simulation step in seconds.
	TimeStep float64 `yaml:"time_step"`
	Gravity  Vector  `yaml:"gravity"`
}

type MovementConfig struct {
	ForceMagnitude    float64     `yaml:"force_magnitude"`
	ControlMode       ControlMode `yaml:"control_mode"`
	NormalizeDiagonal bool        `yaml:"normalize_diagonal"`
	TrackOrientation  bool        `yaml:"track_orientation"`
}

type SnakeConfig struct {
	Spacing         float64 `yaml:"spacing"`
	HeadSpeed       float64 `yaml:"head_speed"`
	SegmentSize     float64 `yaml:"segment_size"`
	LevelScale      float64 `yaml:"level_scale"`
	InitialSegments int     `yaml:"initial_segments"`
}

type ScenesConfig struct {
	TransitionDuration time.Duration `yaml:"transition_duration"`
	Initial            string        `yaml:"initial"`
}

type AudioConfig struct {
	SampleRate int           `yaml:"sample_rate"`
	Buffer     time.Duration `yaml:"buffer"`
}

// Default returns a configuration that passes Validate.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Encoding: "console"},
		Physics: PhysicsConfig{TimeStep: 1.0 / 60},
		Movement: MovementConfig{
			ForceMagnitude:   8,
			ControlMode:      ControlKeyboard,
			TrackOrientation: true,
		},
		Snake: SnakeConfig{
			Spacing:         1,
			HeadSpeed:       10,
			SegmentSize:     1,
			LevelScale:      0.1,
			InitialSegments: 4,
		},
		Scenes: ScenesConfig{TransitionDuration: 400 * time.Millisecond, Initial: "menu"},
		Audio:  AudioConfig{SampleRate: 44100, Buffer: 100 * time.Millisecond},
	}
}

// LoadYAML decodes r over the defaults, so omitted keys keep their default
// values, then validates the result.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

func (c *Config) Validate() error {
	if c.Physics.TimeStep <= 0 {
		return fmt.Errorf("%w: physics.time_step must be positive", ErrInvalidConfig)
	}
	if c.Movement.ForceMagnitude <= 0 {
		return fmt.Errorf("%w: movement.force_magnitude must be positive", ErrInvalidConfig)
	}
	if _, err := ParseControlMode(string(c.Movement.ControlMode)); err != nil {
		return fmt.Errorf("%w: movement.control_mode: %w", ErrInvalidConfig, err)
	}
	if c.Snake.Spacing <= 0 {
		return fmt.Errorf("%w: snake.spacing must be positive", ErrInvalidConfig)
	}
	if c.Snake.SegmentSize <= 0 {
		return fmt.Errorf("%w: snake.segment_size must be positive", ErrInvalidConfig)
	}
	if c.Snake.LevelScale < 0 {
		return fmt.Errorf("%w: snake.level_scale must not be negative", ErrInvalidConfig)
	}
	if c.Snake.InitialSegments < 0 {
		return fmt.Errorf("%w: snake.initial_segments must not be negative", ErrInvalidConfig)
	}
	if c.Scenes.TransitionDuration < 0 {
		return fmt.Errorf("%w: scenes.transition_duration must not be negative", ErrInvalidConfig)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sample_rate must be positive", ErrInvalidConfig)
	}
	return nil
}
