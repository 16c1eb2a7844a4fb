package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file form of a render setup
type Config struct {
	Camera   CameraConfig  `yaml:"camera"`
	Render   RenderConfig  `yaml:"render"`
	Textures TextureConfig `yaml:"textures"`
	Output   string        `yaml:"output"` // output PNG path, empty = timestamped default
}

// CameraConfig positions the camera, in horizon radii
type CameraConfig struct {
	Distance float64 `yaml:"distance"`
	Height   float64 `yaml:"height"`
	FOV      float64 `yaml:"fov"` // horizontal, degrees
}

// RenderConfig contains sampling and scheduling settings
type RenderConfig struct {
	Resolution string  `yaml:"resolution"` // WIDTHxHEIGHT
	Samples    int     `yaml:"samples"`    // per pixel width
	MaxSteps   int     `yaml:"max_steps"`  // 0 = unbounded
	DiskScale  float64 `yaml:"disk_scale"` // disk texture pixels per 3 horizon radii
	Workers    int     `yaml:"workers"`    // 0 = twice the logical core count
}

// TextureConfig selects where textures come from
type TextureConfig struct {
	Dir        string `yaml:"dir"`
	Procedural bool   `yaml:"procedural"` // generate textures instead of loading Dir
	Seed       int64  `yaml:"seed"`       // starfield seed for procedural textures
}

// DefaultConfig returns a configuration holding the default parameters
func DefaultConfig() Config {
	p := DefaultParams()
	return Config{
		Camera: CameraConfig{
			Distance: p.CameraDistance,
			Height:   p.CameraHeight,
			FOV:      p.FOV,
		},
		Render: RenderConfig{
			Resolution: p.Resolution(),
			Samples:    p.Samples,
			MaxSteps:   p.MaxSteps,
			DiskScale:  p.DiskScale,
		},
		Textures: TextureConfig{
			Dir:  "textures",
			Seed: 1,
		},
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if _, err := cfg.Params(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Params converts the configuration into validated scene parameters
func (c Config) Params() (Params, error) {
	width, height, err := ParseResolution(c.Render.Resolution)
	if err != nil {
		return Params{}, err
	}

	p := Params{
		CameraDistance: c.Camera.Distance,
		CameraHeight:   c.Camera.Height,
		FOV:            c.Camera.FOV,
		Samples:        c.Render.Samples,
		Width:          width,
		Height:         height,
		DiskScale:      c.Render.DiskScale,
		MaxSteps:       c.Render.MaxSteps,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
