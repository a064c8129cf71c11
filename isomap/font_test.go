package isomap

import (
	"image"
	"image/color"
	"testing"

	"github.com/stuarthighley/rott/wad"
)

// testFont builds an archive-shaped font with uniform 4x6 glyphs for
// the printable range, every pixel at palette index 200.
func testFont() (*wad.Font, wad.Palette) {
	pal := make(wad.Palette, 256)
	for i := range pal {
		pal[i] = wad.RGB{Red: uint8(i), Green: uint8(i), Blue: uint8(i)}
	}
	font := &wad.Font{Name: "TESTFONT", Height: 6}
	for i := 1; i <= 95; i++ {
		glyph := &wad.Picture{Name: "G", Width: 4, Height: 6}
		glyph.Pixels = make([]byte, 24)
		glyph.Alpha = make([]byte, 24)
		for j := range glyph.Pixels {
			glyph.Pixels[j] = 200
			glyph.Alpha[j] = 255
		}
		font.Glyphs[i] = glyph
	}
	return font, pal
}

func TestLabelFontMeasure(t *testing.T) {
	font, pal := testFont()
	f, err := newLabelFont(font, pal, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Measure("AB"); got != image.Pt(8, 6) {
		t.Fatalf("Measure(AB) = %v", got)
	}
	// Width is the longest line; height counts every line.
	if got := f.Measure("A\nABC"); got != image.Pt(12, 12) {
		t.Fatalf("Measure(multiline) = %v", got)
	}
	if got := f.Measure(""); got != image.Pt(0, 6) {
		t.Fatalf("Measure(empty) = %v", got)
	}
}

func TestLabelFontWrite(t *testing.T) {
	font, pal := testFont()
	tint := color.RGBA{G: 255, A: 255}
	f, err := newLabelFont(font, pal, tint)
	if err != nil {
		t.Fatal(err)
	}
	dst := newNRGBA(16, 16)
	f.Write(dst, image.Pt(2, 3), "AB")

	// Index 200 in the gray ramp multiplied by a pure green tint.
	want := color.NRGBA{G: 200, A: 255}
	if got := dst.NRGBAAt(2, 3); got != want {
		t.Fatalf("first glyph pixel = %v, want %v", got, want)
	}
	if got := dst.NRGBAAt(6, 3); got != want {
		t.Fatalf("second glyph pixel = %v, want %v", got, want)
	}
	if dst.NRGBAAt(0, 0).A != 0 {
		t.Fatal("pixels outside the text must stay clear")
	}
}

func TestLabelFontNewline(t *testing.T) {
	font, pal := testFont()
	f, err := newLabelFont(font, pal, color.RGBA{R: 255, A: 255})
	if err != nil {
		t.Fatal(err)
	}
	dst := newNRGBA(16, 16)
	f.Write(dst, image.Pt(4, 0), "A\nA")
	if dst.NRGBAAt(4, 6).A == 0 {
		t.Fatal("second line must restart at the original column")
	}
	if dst.NRGBAAt(8, 6).A != 0 {
		t.Fatal("second line must not continue past its glyph")
	}
}
