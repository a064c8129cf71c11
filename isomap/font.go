package isomap

import (
	"image"
	"image/color"

	"github.com/stuarthighley/rott/wad"
)

// labelFont writes annotation text using a recolored archive font.
type labelFont struct {
	height int
	glyphs [128]*image.NRGBA
}

// newLabelFont converts the printable range of a font to the given
// color by multiplying the glyph pixels.
func newLabelFont(font *wad.Font, pal wad.Palette, tint color.RGBA) (*labelFont, error) {
	f := &labelFont{height: font.Height}
	for i := 0; i < 95; i++ {
		glyph := font.Glyphs[i+1]
		if glyph == nil {
			continue
		}
		img, err := glyph.Image(pal)
		if err != nil {
			return nil, err
		}
		f.glyphs[i+0x20] = multiply(img, tint)
	}
	return f, nil
}

func multiply(src *image.NRGBA, tint color.RGBA) *image.NRGBA {
	b := src.Bounds()
	dst := newNRGBA(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			dst.SetNRGBA(x, y, color.NRGBA{
				R: uint8(int(c.R) * int(tint.R) / 255),
				G: uint8(int(c.G) * int(tint.G) / 255),
				B: uint8(int(c.B) * int(tint.B) / 255),
				A: c.A,
			})
		}
	}
	return dst
}

// Write draws text onto dst with the top left corner at. Newlines wrap
// back to the starting column.
func (f *labelFont) Write(dst *image.NRGBA, at image.Point, text string) {
	cursor := at
	for _, ch := range text {
		switch {
		case ch == '\r':
		case ch == '\n':
			cursor = image.Pt(at.X, cursor.Y+f.height)
		case int(ch) < len(f.glyphs) && f.glyphs[ch] != nil:
			paste(dst, f.glyphs[ch], cursor)
			cursor.X += f.glyphs[ch].Bounds().Dx()
		}
	}
}

// Measure returns the pixel box the text would cover.
func (f *labelFont) Measure(text string) image.Point {
	width, line, lines := 0, 0, 1
	for _, ch := range text {
		switch {
		case ch == '\r':
		case ch == '\n':
			lines++
			line = 0
		case int(ch) < len(f.glyphs) && f.glyphs[ch] != nil:
			line += f.glyphs[ch].Bounds().Dx()
			if line > width {
				width = line
			}
		}
	}
	return image.Pt(width, lines*f.height)
}
