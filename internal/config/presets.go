package config

import (
	"slices"
)

func cloud() []ObjectConfig {
	return []ObjectConfig{{
		Kind:   "random_spheres",
		Count:  30,
		Size:   2,
		Colors: []string{"#ff0000", "#00ffff"},
	}}
}

func follow() BehaviourConfig {
	return BehaviourConfig{Kind: "light_to_camera", Offset: V(-1, -1, 0)}
}

// Presets are named animations of a random point cloud.
var Presets = map[string]*Config{
	"orbit": {
		Width: 512, Height: 512, Frames: 200, FPS: 30, Seed: 1,
		Background: "#ffffff",
		Camera:     CameraConfig{Position: V(3, 3, 3), Target: V(0, 0, 0), Up: V(0, 0, 1), FOV: DefaultFOV},
		Light:      V(-0.5, -0.8, -2),
		Objects:    cloud(),
		Behaviours: []BehaviourConfig{
			{Kind: "camera_trajectory", Speed: 0.005, Trajectory: &TrajectoryConfig{
				Kind: "circle", Center: V(0, 0, 3), Point: V(3, 3, 3), Normal: V(0, 0, 1),
			}},
			follow(),
		},
	},
	"square": {
		Width: 512, Height: 512, Frames: 200, FPS: 30, Seed: 1,
		Background: "#ffffff",
		Camera:     CameraConfig{Position: V(-4, -4, 1), Target: V(0, 0, 0), Up: V(0, 0, 1), FOV: DefaultFOV},
		Light:      V(-0.5, -0.8, -2),
		Objects:    cloud(),
		Behaviours: []BehaviourConfig{
			{Kind: "camera_trajectory", Speed: 0.005, Trajectory: &TrajectoryConfig{
				Kind: "repeat",
				Inner: &TrajectoryConfig{Kind: "lines", Points: []Vec{
					V(-4, -4, 1), V(-4, 4, 1), V(4, 4, 1), V(4, -4, 1), V(-4, -4, 1),
				}},
			}},
			follow(),
		},
	},
	"pingpong": {
		Width: 512, Height: 512, Frames: 200, FPS: 30, Seed: 1,
		Background: "#ffffff",
		Camera:     CameraConfig{Position: V(-4, -4, -2), Target: V(0, 0, 0), Up: V(0, 0, 1), FOV: DefaultFOV},
		Light:      V(-0.5, -0.8, -2),
		Objects:    cloud(),
		Behaviours: []BehaviourConfig{
			{Kind: "camera_trajectory", Speed: 0.01, Trajectory: &TrajectoryConfig{
				Kind:  "back_and_forth",
				Inner: &TrajectoryConfig{Kind: "lines", Points: []Vec{V(-4, -4, -2), V(4, -4, 2)}},
			}},
			follow(),
		},
	},
	"bezier": {
		Width: 512, Height: 512, Frames: 200, FPS: 30, Seed: 1,
		Background: "#ffffff",
		Camera:     CameraConfig{Position: V(-4, -4, 1), Target: V(0, 0, 0), Up: V(0, 0, 1), FOV: DefaultFOV},
		Light:      V(-0.5, -0.8, -2),
		Objects:    cloud(),
		Behaviours: []BehaviourConfig{
			{Kind: "camera_trajectory", Speed: 0.005, Trajectory: &TrajectoryConfig{
				Kind: "repeat",
				Inner: &TrajectoryConfig{Kind: "bezier_curves", Points: []Vec{
					V(-4, -4, 1), V(-6, 0, 1), V(-4, 4, 1),
					V(0, 6, 1), V(4, 4, 1), V(6, 0, 1),
					V(4, -4, 1), V(0, -6, 1), V(-4, -4, 1),
				}},
			}},
			follow(),
		},
	},
	"light": {
		Width: 512, Height: 512, Frames: 200, FPS: 30, Seed: 1,
		Background: "#ffffff",
		Camera:     CameraConfig{Position: V(3, 3, 3), Target: V(0, 0, 0), Up: V(0, 0, 1), FOV: DefaultFOV},
		Light:      V(-0.5, -0.8, -2),
		Objects:    cloud(),
		Behaviours: []BehaviourConfig{
			{Kind: "light_trajectory", Speed: 0.005, Trajectory: &TrajectoryConfig{
				Kind: "circle", Center: V(0, 0, 0), Point: V(2, -4, 2), Normal: V(1, 1, 1),
			}},
		},
	},
	"spin": {
		Width: 512, Height: 512, Frames: 120, FPS: 30,
		Background: "#202020",
		Camera:     CameraConfig{Position: V(-2, -2, -2), Target: V(0, 0, 0), Up: V(0, 0, 1), FOV: DefaultFOV},
		Light:      V(-0.5, -0.8, -2),
		Objects: []ObjectConfig{
			{Kind: "cube", Size: 1, Color: "#4080ff"},
			{Kind: "axes", Size: 1.5},
		},
		Behaviours: []BehaviourConfig{
			{Kind: "local_rotation", Axis: V(0, 0, 1), Speed: 0.05},
			{Kind: "mouse_rotate"},
			{Kind: "mouse_zoom", Delta: 0.5},
			{Kind: "light_to_camera"},
			{Kind: "snapshot", Path: "snapshot_%03d.png"},
			{Kind: "print_camera"},
			{Kind: "sort_triangles"},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	c.Objects = slices.Clone(p.Objects)
	c.Behaviours = slices.Clone(p.Behaviours)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
