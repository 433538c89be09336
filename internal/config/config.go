// Package config is the YAML configuration for the simulator: window,
// camera, train parameters, scene selection and data locations. CLI
// flags override whatever the file says.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/railsim/internal/train"
)

const (
	DefaultWidth    = 1280
	DefaultHeight   = 720
	DefaultFPS      = 60
	DefaultFOV      = 70.0
	DefaultDt       = 1.0 / 60
	DefaultDuration = 600.0
	DefaultCars     = 3
	DefaultDataDir  = "railsim_data"
)

type Config struct {
	Scene    string       `yaml:"scene"` // path to a scene YAML, empty for the demo line
	DataDir  string       `yaml:"data_dir"`
	Dt       float64      `yaml:"dt"`
	Duration float64      `yaml:"duration"`
	Window   WindowConfig `yaml:"window"`
	Camera   CameraConfig `yaml:"camera"`
	Train    TrainConfig  `yaml:"train"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type CameraConfig struct {
	FOV  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

type TrainConfig struct {
	Cars          int     `yaml:"cars"`
	MaxAccel      float64 `yaml:"max_accel"`
	MaxBrake      float64 `yaml:"max_brake"`
	VMax          float64 `yaml:"v_max"`
	StopThreshold float64 `yaml:"stop_threshold"`
	DwellTime     float64 `yaml:"dwell_time"`
}

func DefaultConfig() *Config {
	p := train.DefaultParams()
	return &Config{
		DataDir:  DefaultDataDir,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
		},
		Camera: CameraConfig{
			FOV:  DefaultFOV,
			Near: 0.5,
			Far:  2000,
		},
		Train: TrainConfig{
			Cars:          DefaultCars,
			MaxAccel:      p.MaxAccel,
			MaxBrake:      p.MaxBrake,
			VMax:          p.VMax,
			StopThreshold: p.StopThreshold,
			DwellTime:     p.DwellTime,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// TrainParams maps the config onto the dynamics parameters, falling
// back to defaults for anything unset.
func (c *Config) TrainParams() train.Params {
	p := train.DefaultParams()
	if c.Train.MaxAccel > 0 {
		p.MaxAccel = c.Train.MaxAccel
	}
	if c.Train.MaxBrake > 0 {
		p.MaxBrake = c.Train.MaxBrake
	}
	if c.Train.VMax > 0 {
		p.VMax = c.Train.VMax
	}
	if c.Train.StopThreshold > 0 {
		p.StopThreshold = c.Train.StopThreshold
	}
	if c.Train.DwellTime > 0 {
		p.DwellTime = c.Train.DwellTime
	}
	return p
}
