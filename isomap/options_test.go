package isomap

import (
	"image"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Background != [3]uint8{32, 32, 32} {
		t.Errorf("background = %v", opts.Background)
	}
	if opts.SpriteScale != 0.75 {
		t.Errorf("sprite scale = %v", opts.SpriteScale)
	}
	if opts.Occlusion != OcclusionOverlap {
		t.Errorf("occlusion = %q", opts.Occlusion)
	}
}

func TestOptionsYAML(t *testing.T) {
	opts := DefaultOptions()
	src := "background: [10, 20, 30]\nworkers: 4\nocclusion: \"off\"\n"
	if err := yaml.Unmarshal([]byte(src), &opts); err != nil {
		t.Fatal(err)
	}
	if opts.Background != [3]uint8{10, 20, 30} || opts.Workers != 4 {
		t.Fatalf("opts = %+v", opts)
	}
	if opts.Occlusion != OcclusionOff {
		t.Fatalf("occlusion = %q", opts.Occlusion)
	}
	// Unmentioned fields keep their defaults.
	if opts.SpriteScale != 0.75 {
		t.Fatalf("sprite scale = %v", opts.SpriteScale)
	}
}

func TestPolicyFor(t *testing.T) {
	for _, name := range []string{"", OcclusionOverlap, OcclusionOff} {
		if _, err := policyFor(name); err != nil {
			t.Errorf("policyFor(%q) = %v", name, err)
		}
	}
	if _, err := policyFor("sometimes"); err == nil {
		t.Error("unknown policy name must error")
	}
}

func TestNewRejectsBadOcclusion(t *testing.T) {
	opts := DefaultOptions()
	opts.Occlusion = "sometimes"
	if _, err := New(nil, opts); err == nil {
		t.Fatal("New accepted a bad occlusion policy")
	}
}

func TestOcclusionPolicies(t *testing.T) {
	item := image.Rect(0, 0, 10, 10)
	overlapping := image.Rect(5, 5, 15, 15)
	disjoint := image.Rect(20, 20, 30, 30)
	touching := image.Rect(10, 0, 20, 10)

	if !OverlapObscures(item, overlapping) {
		t.Error("overlapping boxes must obscure")
	}
	if OverlapObscures(item, disjoint) {
		t.Error("disjoint boxes must not obscure")
	}
	if OverlapObscures(item, touching) {
		t.Error("edge-touching boxes must not obscure")
	}
	for _, wall := range []image.Rectangle{overlapping, disjoint} {
		if NothingObscures(item, wall) {
			t.Error("disabled policy must never obscure")
		}
	}
}
