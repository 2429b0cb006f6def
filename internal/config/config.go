package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth  = 512
	DefaultHeight = 512
	DefaultFrames = 120
	DefaultFPS    = 30
	DefaultFOV    = 45.0
)

var (
	ErrUnknownKind = errors.New("unknown kind")
	ErrBadVector   = errors.New("vector must have 3 components")
	ErrBadColor    = errors.New("bad color")
	ErrNoObject    = errors.New("no such object")
)

// Config describes one animation: the scene, what is in it and the ordered
// behaviours that animate it.
type Config struct {
	Width      int               `yaml:"width"`
	Height     int               `yaml:"height"`
	Frames     int               `yaml:"frames"`
	FPS        int               `yaml:"fps"`
	Seed       int64             `yaml:"seed"`
	Background string            `yaml:"background"`
	Camera     CameraConfig      `yaml:"camera"`
	Light      Vec               `yaml:"light"`
	Objects    []ObjectConfig    `yaml:"objects"`
	Behaviours []BehaviourConfig `yaml:"behaviours"`
}

type CameraConfig struct {
	Position Vec     `yaml:"position"`
	Target   Vec     `yaml:"target"`
	Up       Vec     `yaml:"up"`
	FOV      float64 `yaml:"fov"`
}

// ObjectConfig is a renderable. Kind is one of cube, axes, spheres,
// random_spheres or lines.
type ObjectConfig struct {
	Kind   string    `yaml:"kind"`
	Size   float64   `yaml:"size,omitempty"`
	Count  int       `yaml:"count,omitempty"`
	Color  string    `yaml:"color,omitempty"`
	Colors []string  `yaml:"colors,omitempty"`
	Points []Vec     `yaml:"points,omitempty"`
	Sizes  []float64 `yaml:"sizes,omitempty"`
	Offset Vec       `yaml:"offset,omitempty"`
}

// BehaviourConfig is one entry of the behaviour list. Which fields apply
// depends on Kind. Start and Stop, when set, restrict the behaviour to that
// tick window.
type BehaviourConfig struct {
	Kind       string            `yaml:"kind"`
	Trajectory *TrajectoryConfig `yaml:"trajectory,omitempty"`
	Speed      float64           `yaml:"speed,omitempty"`
	Around     string            `yaml:"around,omitempty"`
	Axis       Vec               `yaml:"axis,omitempty"`
	Offset     Vec               `yaml:"offset,omitempty"`
	Object     int               `yaml:"object,omitempty"`
	Keys       []string          `yaml:"keys,omitempty"`
	Path       string            `yaml:"path,omitempty"`
	Every      int               `yaml:"every,omitempty"`
	Delay      int               `yaml:"delay,omitempty"`
	Delta      float64           `yaml:"delta,omitempty"`
	Start      *int              `yaml:"start,omitempty"`
	Stop       *int              `yaml:"stop,omitempty"`
}

// TrajectoryConfig is a trajectory expression. Kind is one of linear, lines,
// bezier, bezier_curves, circle, join, repeat, back_and_forth or start_stop.
type TrajectoryConfig struct {
	Kind     string            `yaml:"kind"`
	Points   []Vec             `yaml:"points,omitempty"`
	Center   Vec               `yaml:"center,omitempty"`
	Point    Vec               `yaml:"point,omitempty"`
	Normal   Vec               `yaml:"normal,omitempty"`
	Inner    *TrajectoryConfig `yaml:"inner,omitempty"`
	Start    float64           `yaml:"start,omitempty"`
	Stop     float64           `yaml:"stop,omitempty"`
	Segments []SegmentConfig   `yaml:"segments,omitempty"`
}

type SegmentConfig struct {
	Weight     float64          `yaml:"weight"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`
}

// Vec is a 3-vector written as a YAML sequence.
type Vec []float64

func V(x, y, z float64) Vec { return Vec{x, y, z} }

func (v Vec) Vec3() (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: got %d", ErrBadVector, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

// Vec3Or returns def when v is empty.
func (v Vec) Vec3Or(def mgl64.Vec3) (mgl64.Vec3, error) {
	if len(v) == 0 {
		return def, nil
	}
	return v.Vec3()
}

// ParseColor parses "#rgb" or "#rrggbb" hex colors. An empty string gives
// def.
func ParseColor(s string, def color.RGBA) (color.RGBA, error) {
	if s == "" {
		return def, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w %q: %v", ErrBadColor, s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Frames:     DefaultFrames,
		FPS:        DefaultFPS,
		Background: "#ffffff",
		Camera: CameraConfig{
			Position: V(-2, -2, -2),
			Target:   V(0, 0, 0),
			Up:       V(0, 0, 1),
			FOV:      DefaultFOV,
		},
		Light: V(-0.5, -0.8, -2),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
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
