package isomap

import (
	"fmt"
	"image"
	"image/color"
)

// Occlusion policy names accepted in Options.
const (
	OcclusionOverlap = "overlap"
	OcclusionOff     = "off"
)

// Options are the tunable render settings, loadable from a YAML file.
type Options struct {
	// Background is the canvas color behind the map.
	Background [3]uint8 `yaml:"background"`

	// Workers bounds how many levels render concurrently. Zero lets
	// the command pick one per CPU.
	Workers int `yaml:"workers"`

	// SpriteScale shrinks billboard sprites relative to a full tile.
	SpriteScale float64 `yaml:"sprite_scale"`

	// Occlusion names the policy deciding when an important item
	// counts as hidden behind a wall.
	Occlusion string `yaml:"occlusion"`

	// OutputDir receives the rendered files.
	OutputDir string `yaml:"output_dir"`
}

// DefaultOptions are the settings the commands start from.
func DefaultOptions() Options {
	return Options{
		Background:  [3]uint8{32, 32, 32},
		SpriteScale: 0.75,
		Occlusion:   OcclusionOverlap,
	}
}

func (o Options) background() color.RGBA {
	return color.RGBA{R: o.Background[0], G: o.Background[1], B: o.Background[2], A: 255}
}

// OcclusionPolicy decides whether a wall drawn after an important item
// hides it, judging by the two screen bounding boxes.
type OcclusionPolicy func(item, wall image.Rectangle) bool

// OverlapObscures hides an item as soon as any later wall box touches
// its own. Eager on purpose: a map reader wants a pointer to anything
// that could be missed, false positives included.
func OverlapObscures(item, wall image.Rectangle) bool {
	return item.Overlaps(wall)
}

// NothingObscures disables occlusion pointers. Key annotations are
// unconditional and stay either way.
func NothingObscures(item, wall image.Rectangle) bool {
	return false
}

func policyFor(name string) (OcclusionPolicy, error) {
	switch name {
	case "", OcclusionOverlap:
		return OverlapObscures, nil
	case OcclusionOff:
		return NothingObscures, nil
	}
	return nil, fmt.Errorf("unknown occlusion policy %q", name)
}
