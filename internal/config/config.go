package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Controller holds the character movement tuning.
type Controller struct {
	Speed         float32    `yaml:"speed"`
	Sensitivity   float32    `yaml:"sensitivity"`
	Gravity       float32    `yaml:"gravity"`
	JumpStrength  float32    `yaml:"jump"`
	VerticalScale float32    `yaml:"verticalScale"`
	Height        float32    `yaml:"height"`
	Radius        float32    `yaml:"radius"`
	RespawnHeight float32    `yaml:"respawnHeight"`
	RespawnPoint  [3]float32 `yaml:"respawnPoint,flow"`
}

type Camera struct {
	Yaw                 float32    `yaml:"yaw"`
	Pitch               float32    `yaml:"pitch"`
	ThirdPersonDistance float32    `yaml:"thirdPersonDistance"`
	EyeOffset           [3]float32 `yaml:"eyeOffset,flow"`
	Smoothing           float32    `yaml:"smoothing"`
	Fovy                float32    `yaml:"fovy"`
}

type Simulation struct {
	// FixedStep is the frame time used by headless runs.
	FixedStep float32 `yaml:"fixedStep"`
	Frames    int     `yaml:"frames"`
}

type Debug struct {
	Addr string `yaml:"addr"`
	// PublishEvery sends one snapshot every N frames.
	PublishEvery int `yaml:"publishEvery"`
}

type Viewer struct {
	Width  int32  `yaml:"width"`
	Height int32  `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int32  `yaml:"fps"`
	Watch  bool   `yaml:"watch"`
}

type Config struct {
	Scene      string     `yaml:"scene"`
	Character  string     `yaml:"character"`
	Controller Controller `yaml:"controller"`
	Camera     Camera     `yaml:"camera"`
	Simulation Simulation `yaml:"simulation"`
	Debug      Debug      `yaml:"debug"`
	Viewer     Viewer     `yaml:"viewer"`
}

// Default returns the built-in tuning.
func Default() Config {
	return Config{
		Scene:     "assets/scenes/demo.json",
		Character: "Player",
		Controller: Controller{
			Speed:         5.5,
			Sensitivity:   0.05,
			Gravity:       5,
			JumpStrength:  1,
			VerticalScale: 3,
			Height:        1.8,
			Radius:        0.5,
			RespawnHeight: -20,
			RespawnPoint:  [3]float32{0, 10, 0},
		},
		Camera: Camera{
			Yaw:                 -90,
			Pitch:               0,
			ThirdPersonDistance: 4,
			EyeOffset:           [3]float32{0, 0.85, 0},
			Smoothing:           10,
			Fovy:                45,
		},
		Simulation: Simulation{
			FixedStep: 1.0 / 60,
			Frames:    600,
		},
		Debug: Debug{
			Addr:         "localhost:8090",
			PublishEvery: 6,
		},
		Viewer: Viewer{
			Width:  1280,
			Height: 720,
			Title:  "walk3d",
			FPS:    60,
			Watch:  true,
		},
	}
}

// Parse decodes YAML over the defaults, so a file only lists what it
// changes.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load reads a config file. An empty path gives the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Simulation.FixedStep <= 0 {
		return errors.Errorf("simulation.fixedStep must be positive, got %v", c.Simulation.FixedStep)
	}
	if c.Controller.Height < 0 || c.Controller.Radius < 0 {
		return errors.New("controller height and radius must not be negative")
	}
	if c.Camera.Smoothing < 0 {
		return errors.Errorf("camera.smoothing must not be negative, got %v", c.Camera.Smoothing)
	}
	if c.Debug.PublishEvery < 1 {
		return errors.Errorf("debug.publishEvery must be at least 1, got %d", c.Debug.PublishEvery)
	}
	return nil
}

// Save writes c as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}
