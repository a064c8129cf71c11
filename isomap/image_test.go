package isomap

import (
	"image"
	"image/color"
	"testing"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestClamp(t *testing.T) {
	if clamp(5, 0, 10) != 5 || clamp(-3, 0, 10) != 0 || clamp(42, 0, 10) != 10 {
		t.Fatal("integer clamp broken")
	}
	if clamp(1.5, 0.0, 1.0) != 1.0 {
		t.Fatal("float clamp broken")
	}
	if clamp(uint8(200), uint8(0), uint8(128)) != 128 {
		t.Fatal("uint8 clamp broken")
	}
}

func TestMirror(t *testing.T) {
	src := newNRGBA(4, 2)
	src.SetNRGBA(0, 0, red)
	dst := mirror(src)
	if dst.NRGBAAt(3, 0) != red {
		t.Fatalf("mirrored pixel = %v", dst.NRGBAAt(3, 0))
	}
	if dst.NRGBAAt(0, 0) == red {
		t.Fatal("original corner should have moved")
	}
}

func TestRotateQuarters(t *testing.T) {
	src := newNRGBA(2, 1)
	src.SetNRGBA(1, 0, red)

	ccw := rotateQuarters(src, 1)
	if b := ccw.Bounds(); b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("quarter turn size %v", b)
	}
	if ccw.NRGBAAt(0, 0) != red {
		t.Fatalf("quarter turn moved pixel to %v", ccw)
	}

	half := rotateQuarters(src, 2)
	if half.NRGBAAt(0, 0) != red {
		t.Fatal("half turn misplaced pixel")
	}

	if rotateQuarters(src, 0) != src {
		t.Fatal("zero turns must be the identity")
	}
	if rotateQuarters(src, -1).Bounds() != rotateQuarters(src, 3).Bounds() {
		t.Fatal("negative turns must wrap")
	}
}

func TestSkewShapes(t *testing.T) {
	src := newNRGBA(64, 128)
	for x := 0; x < 64; x++ {
		src.SetNRGBA(x, 0, red)
	}

	left := leftSkew(src)
	if b := left.Bounds(); b.Dx() != 64 || b.Dy() != 160 {
		t.Fatalf("left skew size %v", b)
	}
	// Columns shift down by half their x offset.
	if left.NRGBAAt(0, 0) != red || left.NRGBAAt(40, 20) != red {
		t.Fatal("left skew does not descend to the right")
	}

	right := rightSkew(src)
	if right.NRGBAAt(0, 32) != red || right.NRGBAAt(40, 12) != red {
		t.Fatal("right skew does not ascend to the right")
	}
}

func TestFloorSkew(t *testing.T) {
	src := newNRGBA(64, 64)
	src.SetNRGBA(32, 32, red)
	dst := floorSkew(src)
	if b := dst.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Fatalf("floor skew size %v", b)
	}
	// The texture center lands on the diamond center.
	if dst.NRGBAAt(64, 32) != red {
		t.Fatalf("center pixel landed elsewhere: %v", dst.NRGBAAt(64, 32))
	}
}

func TestFloorQuads(t *testing.T) {
	src := newNRGBA(128, 128)
	quads := floorQuads(src)
	for i, quad := range quads {
		if b := quad.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
			t.Fatalf("quad %v size %v", i, b)
		}
	}
}

func TestStackColumn(t *testing.T) {
	bot := fill(64, 64, color.RGBA{R: 255, A: 255})
	mid := fill(64, 64, color.RGBA{G: 255, A: 255})
	top := fill(64, 64, color.RGBA{B: 255, A: 255})

	full := stackColumn([]*image.NRGBA{bot, mid, top}, 192)
	if b := full.Bounds(); b.Dx() != 64 || b.Dy() != 192 {
		t.Fatalf("column size %v", b)
	}
	if full.NRGBAAt(0, 0).B != 255 {
		t.Error("top band should use the top image")
	}
	if full.NRGBAAt(0, 64).G != 255 {
		t.Error("middle band should use the middle image")
	}
	if full.NRGBAAt(0, 128).R != 255 {
		t.Error("bottom band should use the bottom image")
	}

	// A single band column repeats the only image.
	short := stackColumn([]*image.NRGBA{bot}, 64)
	if short.NRGBAAt(0, 0).R != 255 {
		t.Error("single band column misassembled")
	}
}

func TestDarkenBack(t *testing.T) {
	src := fill(2, 2, color.RGBA{R: 100, G: 200, B: 50, A: 255})
	dst := darkenBack(src, 96)
	got := dst.NRGBAAt(0, 0)
	if got.R != 50 || got.G != 100 || got.B != 25 || got.A != 96 {
		t.Fatalf("darkened pixel = %v", got)
	}
}

func TestWithAlpha(t *testing.T) {
	src := newNRGBA(2, 1)
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, A: 50})
	dst := withAlpha(src, 128)
	if dst.NRGBAAt(0, 0).A != 128 {
		t.Error("opaque pixel not capped")
	}
	if dst.NRGBAAt(1, 0).A != 50 {
		t.Error("translucent pixel should keep its alpha")
	}
}

func TestOpaque(t *testing.T) {
	src := newNRGBA(1, 1)
	src.SetNRGBA(0, 0, color.NRGBA{R: 9, A: 0})
	if opaque(src).NRGBAAt(0, 0).A != 255 {
		t.Fatal("alpha not forced")
	}
}

func TestScaleTo(t *testing.T) {
	src := fill(64, 64, color.RGBA{R: 200, A: 255})
	dst := scaleTo(src, 96, 96)
	if b := dst.Bounds(); b.Dx() != 96 || b.Dy() != 96 {
		t.Fatalf("scaled size %v", b)
	}
	if dst.NRGBAAt(48, 48).R == 0 {
		t.Fatal("scaled content missing")
	}
	if b := scaleTo(src, 0, -5).Bounds(); b.Dx() != 1 || b.Dy() != 1 {
		t.Fatalf("degenerate scale size %v", b)
	}
}

func TestDoubleScale(t *testing.T) {
	src := newNRGBA(2, 2)
	src.SetNRGBA(1, 1, red)
	dst := doubleScale(src)
	if b := dst.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("doubled size %v", b)
	}
	if dst.NRGBAAt(2, 2) != red || dst.NRGBAAt(3, 3) != red {
		t.Fatal("nearest neighbor block missing")
	}
}

func TestPasteBlends(t *testing.T) {
	dst := fill(2, 2, color.RGBA{R: 255, A: 255})
	over := newNRGBA(2, 2)
	over.SetNRGBA(0, 0, blue)

	paste(dst, over, image.Point{})
	if dst.NRGBAAt(0, 0) != blue {
		t.Error("opaque source pixel must replace")
	}
	if dst.NRGBAAt(1, 1).R != 255 {
		t.Error("transparent source pixel must leave destination alone")
	}

	copyTo(dst, over, image.Point{})
	if dst.NRGBAAt(1, 1).A != 0 {
		t.Error("copyTo must carry transparency over")
	}
}

func TestCrop(t *testing.T) {
	src := newNRGBA(4, 4)
	src.SetNRGBA(2, 2, red)
	dst := crop(src, image.Rect(2, 2, 4, 4))
	if b := dst.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("crop size %v", b)
	}
	if dst.NRGBAAt(0, 0) != red {
		t.Fatal("crop origin misaligned")
	}
}
