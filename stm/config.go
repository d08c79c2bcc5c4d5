package stm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every pipeline-entry parameter of spec.md §6, with the
// same defaults (cam_match=2, max_matches_per_ray=2, maxdistance=999.9).
// It is the declarative setup object for a Pipeline, in the same spirit
// as the teacher's module-based App builder: fill it in, call Validate,
// then hand it to NewPipeline.
type Config struct {
	BoundingBox [3][2]float64 `yaml:"bounding_box"`
	NX          int           `yaml:"nx"`
	NY          int           `yaml:"ny"`
	NZ          int           `yaml:"nz"`

	CamMatch         int     `yaml:"cam_match"`
	MaxMatchesPerRay int     `yaml:"max_matches_per_ray"`
	MaxDistance      float64 `yaml:"maxdistance"`

	// NeighbourPreset selects a built-in stencil (0, 6, 18, or 26). It is
	// ignored when CustomNeighbours is non-empty.
	NeighbourPreset  int        `yaml:"neighbours"`
	CustomNeighbours [][3]int32 `yaml:"custom_neighbours,omitempty"`
}

// DefaultConfig returns a Config with spec.md §6's documented defaults.
// BoundingBox and grid dimensions still need to be set by the caller.
func DefaultConfig() Config {
	return Config{
		CamMatch:         2,
		MaxMatchesPerRay: 2,
		MaxDistance:      999.9,
		NeighbourPreset:  6,
	}
}

// LoadConfigYAML reads a YAML file into a Config seeded with
// DefaultConfig, so files only need to specify the fields they override.
func LoadConfigYAML(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("stm: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("stm: parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// box converts the raw [min,max] triples into an AABB.
func (c Config) box() AABB {
	return AABB{
		XMin: c.BoundingBox[0][0], XMax: c.BoundingBox[0][1],
		YMin: c.BoundingBox[1][0], YMax: c.BoundingBox[1][1],
		ZMin: c.BoundingBox[2][0], ZMax: c.BoundingBox[2][1],
	}
}

// stencil resolves the configured neighbourhood to a concrete offset
// list, validating custom stencils include the zero offset.
func (c Config) stencil() ([][3]int32, error) {
	if len(c.CustomNeighbours) > 0 {
		for _, d := range c.CustomNeighbours {
			if d == [3]int32{0, 0, 0} {
				return c.CustomNeighbours, nil
			}
		}
		return nil, &ConfigError{Reason: "custom neighbour stencil must include the zero offset (0,0,0)"}
	}
	return stencilByPreset(c.NeighbourPreset)
}

const minCellsPerAxis = 5

// Validate checks the structural preconditions of spec.md §7's
// ConfigError: bounding box shape, minimum grid size, cam_match >= 2,
// max_matches_per_ray >= 1, and stencil validity. It does not check ray
// data (see buildRayDB for InputError).
func (c Config) Validate() error {
	box := c.box()
	if !box.Valid() {
		return &ConfigError{Reason: fmt.Sprintf("bounding box must have min<max on every axis, got %v", c.BoundingBox)}
	}
	if c.NX < minCellsPerAxis || c.NY < minCellsPerAxis || c.NZ < minCellsPerAxis {
		return &ConfigError{Reason: fmt.Sprintf("grid dimensions must each be >= %d, got (%d,%d,%d)", minCellsPerAxis, c.NX, c.NY, c.NZ)}
	}
	if c.CamMatch < 2 {
		return &ConfigError{Reason: fmt.Sprintf("cam_match must be >= 2, got %d", c.CamMatch)}
	}
	if c.MaxMatchesPerRay < 1 {
		return &ConfigError{Reason: fmt.Sprintf("max_matches_per_ray must be >= 1, got %d", c.MaxMatchesPerRay)}
	}
	if _, err := c.stencil(); err != nil {
		return err
	}
	return nil
}
