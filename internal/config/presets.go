package config

import (
	"math"
	"math/rand/v2"
	"sort"
)

var Presets = map[string]*Config{
	"binary": {
		Name: "binary", G: 1.0, Dt: 0.005, Duration: 20.0, SampleEvery: 10,
		Bodies: []BodyConfig{
			{
				Mesh: "tetrahedron", Size: 1, Density: 1,
				Position:        [3]float64{4, 0, -1},
				Velocity:        [3]float64{0, 0.4, 0},
				AngularVelocity: [3]float64{0.1, 0, 0},
			},
			{
				Mesh: "tetrahedron", Size: 1, Density: 1,
				Position:        [3]float64{5, 0, 0},
				Velocity:        [3]float64{0, -0.4, 0},
				AngularVelocity: [3]float64{0.2, 0, 0},
			},
		},
	},
	"spinner": {
		Name: "spinner", G: 1.0, Dt: 0.001, Duration: 20.0, SampleEvery: 20,
		Bodies: []BodyConfig{
			{
				Mesh: "plank", Size: 2, Density: 1,
				AngularVelocity: [3]float64{0.01, 3, 0.01},
			},
		},
	},
	"triple": {
		Name: "triple", G: 1.0, Dt: 0.002, Duration: 30.0, SampleEvery: 25,
		Bodies: []BodyConfig{
			{
				Mesh: "cube", Size: 1, Density: 1,
				Position: [3]float64{3, 0, 0}, Velocity: [3]float64{0, 0.3, 0},
				AngularVelocity: [3]float64{0, 0, 0.5},
			},
			{
				Mesh: "plank", Size: 1.5, Density: 1,
				Position: [3]float64{-1.5, 2.598, 0}, Velocity: [3]float64{-0.26, -0.15, 0},
				AngularVelocity: [3]float64{0.3, 0, 0},
			},
			{
				Mesh: "octahedron", Size: 1, Density: 2,
				Position: [3]float64{-1.5, -2.598, 0}, Velocity: [3]float64{0.26, -0.15, 0},
				Orientation: OrientationConfig{Axis: [3]float64{1, 1, 0}, Angle: 0.4},
			},
		},
	},
	"cluster": Cluster(8, 42),
}

// Cluster places n unit cubes at random inside a sphere of radius 2n^(1/3)
// with small random velocities and spins.
func Cluster(n int, seed int64) *Config {
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	radius := 2 * math.Cbrt(float64(n))

	uniform := func(scale float64) [3]float64 {
		return [3]float64{
			scale * (2*rng.Float64() - 1),
			scale * (2*rng.Float64() - 1),
			scale * (2*rng.Float64() - 1),
		}
	}

	bodies := make([]BodyConfig, 0, n)
	for len(bodies) < n {
		p := uniform(radius)
		if math.Sqrt(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]) > radius {
			continue
		}
		bodies = append(bodies, BodyConfig{
			Mesh: "cube", Size: 1, Density: 1,
			Position:        p,
			Velocity:        uniform(0.1),
			AngularVelocity: uniform(0.5),
		})
	}

	return &Config{
		Name: "cluster", G: 1.0, Dt: 0.002, Duration: 20.0, SampleEvery: 25, Seed: seed,
		Bodies: bodies,
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
