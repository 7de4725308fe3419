package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/milk9111/forge2d/common"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	Window  Window  `yaml:"window"`
	Physics Physics `yaml:"physics"`
	Render  Render  `yaml:"render"`
	Camera  Camera  `yaml:"camera"`
	Editor  Editor  `yaml:"editor"`
	Log     Log     `yaml:"log"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Physics struct {
	Gravity            common.Vec2 `yaml:"gravity"`
	TimeStep           float64     `yaml:"time_step"`
	VelocityIterations int         `yaml:"velocity_iterations"`
	PositionIterations int         `yaml:"position_iterations"`
	MaxSubSteps        int         `yaml:"max_sub_steps"`
}

type Render struct {
	MaxBatchSize int `yaml:"max_batch_size"`
	MaxTextures  int `yaml:"max_textures"`
}

type Camera struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Zoom   float64 `yaml:"zoom"`
}

type Editor struct {
	GridSize  float64  `yaml:"grid_size"`
	SceneFile string   `yaml:"scene_file"`
	WatchDirs []string `yaml:"watch_dirs"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Default returns the settings used when no config file is present.
func Default() Settings {
	return Settings{
		Window: Window{Width: 1280, Height: 720, Title: "forge2d"},
		Physics: Physics{
			Gravity:            common.V2(0, -10),
			TimeStep:           1.0 / 60.0,
			VelocityIterations: 8,
			PositionIterations: 3,
			MaxSubSteps:        5,
		},
		Render: Render{MaxBatchSize: 1000, MaxTextures: 8},
		Camera: Camera{Width: 6, Height: 3, Zoom: 1},
		Editor: Editor{
			GridSize:  0.25,
			SceneFile: "levels/level.json",
			WatchDirs: []string{"prefabs", "levels"},
		},
		Log: Log{Level: "info", Encoding: "console"},
	}
}

// Load reads path on top of Default. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	if s.Physics.TimeStep <= 0 {
		return fmt.Errorf("config: physics.time_step must be positive, got %v", s.Physics.TimeStep)
	}
	if s.Physics.VelocityIterations <= 0 {
		return fmt.Errorf("config: physics.velocity_iterations must be positive, got %d", s.Physics.VelocityIterations)
	}
	if s.Render.MaxBatchSize <= 0 {
		return fmt.Errorf("config: render.max_batch_size must be positive, got %d", s.Render.MaxBatchSize)
	}
	if s.Render.MaxTextures <= 0 || s.Render.MaxTextures > 8 {
		return fmt.Errorf("config: render.max_textures must be in [1,8], got %d", s.Render.MaxTextures)
	}
	if s.Camera.Width <= 0 || s.Camera.Height <= 0 {
		return fmt.Errorf("config: camera size must be positive")
	}
	return nil
}
