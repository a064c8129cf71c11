package isomap

import (
	"image"
	"image/color"

	"golang.org/x/exp/constraints"
	xdraw "golang.org/x/image/draw"
)

// Pixel transforms for assembling isometric tiles. All images are
// NRGBA with transparency standing in for the unmapped regions the
// shears produce.

func newNRGBA(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// clamp keeps v within [lo, hi].
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// paste alpha-blends src over dst at the given offset.
func paste(dst, src *image.NRGBA, at image.Point) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		dy := at.Y + y - b.Min.Y
		if dy < 0 || dy >= dst.Bounds().Dy() {
			continue
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := at.X + x - b.Min.X
			if dx < 0 || dx >= dst.Bounds().Dx() {
				continue
			}
			blendPixel(dst, dx, dy, src.NRGBAAt(x, y))
		}
	}
}

// copyTo replaces dst pixels with src pixels, transparency included.
func copyTo(dst, src *image.NRGBA, at image.Point) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		dy := at.Y + y - b.Min.Y
		if dy < 0 || dy >= dst.Bounds().Dy() {
			continue
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := at.X + x - b.Min.X
			if dx < 0 || dx >= dst.Bounds().Dx() {
				continue
			}
			dst.SetNRGBA(dx, dy, src.NRGBAAt(x, y))
		}
	}
}

func blendPixel(dst *image.NRGBA, x, y int, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	if c.A == 255 {
		dst.SetNRGBA(x, y, c)
		return
	}
	d := dst.NRGBAAt(x, y)
	a := int(c.A)
	na := 255 - a
	outA := a + int(d.A)*na/255
	if outA == 0 {
		dst.SetNRGBA(x, y, color.NRGBA{})
		return
	}
	blend := func(s, b uint8) uint8 {
		return uint8((int(s)*a*255 + int(b)*int(d.A)*na) / (outA * 255))
	}
	dst.SetNRGBA(x, y, color.NRGBA{
		R: blend(c.R, d.R),
		G: blend(c.G, d.G),
		B: blend(c.B, d.B),
		A: uint8(outA),
	})
}

// shear shifts each column vertically by slope*x, sampling with a
// two-tap vertical blend on fractional offsets. The output grows by
// half the width so nothing shears out of frame.
func shear(src *image.NRGBA, slope, offset float64) *image.NRGBA {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	dst := newNRGBA(w, h+w/2)
	for x := 0; x < w; x++ {
		shift := slope*float64(x) + offset
		base := int(shift)
		if shift < 0 && shift != float64(base) {
			base--
		}
		frac := shift - float64(base)
		for y := 0; y < dst.Bounds().Dy(); y++ {
			sy := y - base
			c0 := sampleAt(src, x, sy)
			if frac == 0 {
				dst.SetNRGBA(x, y, c0)
				continue
			}
			c1 := sampleAt(src, x, sy-1)
			dst.SetNRGBA(x, y, mixPixels(c0, c1, frac))
		}
	}
	return dst
}

func sampleAt(src *image.NRGBA, x, y int) color.NRGBA {
	if y < 0 || y >= src.Bounds().Dy() {
		return color.NRGBA{}
	}
	return src.NRGBAAt(x, y)
}

func mixPixels(c0, c1 color.NRGBA, frac float64) color.NRGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(clamp(float64(a)*(1-frac)+float64(b)*frac+0.5, 0, 255))
	}
	return color.NRGBA{
		R: mix(c0.R, c1.R),
		G: mix(c0.G, c1.G),
		B: mix(c0.B, c1.B),
		A: mix(c0.A, c1.A),
	}
}

// leftSkew slants a wall strip so its top edge descends left to right,
// fitting the north and south diamond edges.
func leftSkew(src *image.NRGBA) *image.NRGBA {
	return shear(src, 0.5, 0)
}

// rightSkew slants a wall strip the other way, for the east and west
// diamond edges.
func rightSkew(src *image.NRGBA) *image.NRGBA {
	return shear(src, -0.5, float64(src.Bounds().Dx())/2)
}

// floorSkew lays a 64x64 texture down as a 128x64 floor diamond.
func floorSkew(src *image.NRGBA) *image.NRGBA {
	dst := newNRGBA(128, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			sx := x/2 + y - 32
			sy := -(x / 2) + y + 32
			if sx < 0 || sx >= src.Bounds().Dx() || sy < 0 || sy >= src.Bounds().Dy() {
				continue
			}
			dst.SetNRGBA(x, y, src.NRGBAAt(sx, sy))
		}
	}
	return dst
}

// floorQuads splits a 128x128 floor texture into its four skewed
// quadrant diamonds: upper left, upper right, lower left, lower right.
func floorQuads(src *image.NRGBA) [4]*image.NRGBA {
	var quads [4]*image.NRGBA
	for i := 0; i < 4; i++ {
		quad := newNRGBA(64, 64)
		origin := image.Pt(i%2*64, i/2*64)
		for y := 0; y < 64; y++ {
			for x := 0; x < 64; x++ {
				quad.SetNRGBA(x, y, sampleRect(src, origin.X+x, origin.Y+y))
			}
		}
		quads[i] = floorSkew(quad)
	}
	return quads
}

func sampleRect(src *image.NRGBA, x, y int) color.NRGBA {
	if x < 0 || x >= src.Bounds().Dx() || y < 0 || y >= src.Bounds().Dy() {
		return color.NRGBA{}
	}
	return src.NRGBAAt(x, y)
}

// mirror flips an image horizontally.
func mirror(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := newNRGBA(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetNRGBA(b.Dx()-1-x, y, src.NRGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// rotateQuarters rotates counter-clockwise by quarter turns.
func rotateQuarters(src *image.NRGBA, quarters int) *image.NRGBA {
	quarters = ((quarters % 4) + 4) % 4
	if quarters == 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var dst *image.NRGBA
	if quarters%2 == 0 {
		dst = newNRGBA(w, h)
	} else {
		dst = newNRGBA(h, w)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			switch quarters {
			case 1:
				dst.SetNRGBA(y, w-1-x, c)
			case 2:
				dst.SetNRGBA(w-1-x, h-1-y, c)
			case 3:
				dst.SetNRGBA(h-1-y, x, c)
			}
		}
	}
	return dst
}

// scaleTo resizes to an exact size with smooth resampling.
func scaleTo(src *image.NRGBA, w, h int) *image.NRGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := newNRGBA(w, h)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// doubleScale resizes to twice the size with hard pixel edges.
func doubleScale(src *image.NRGBA) *image.NRGBA {
	dst := newNRGBA(src.Bounds().Dx()*2, src.Bounds().Dy()*2)
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// darkenBack halves the colors and fixes the alpha for the see-through
// back faces of solid walls.
func darkenBack(src *image.NRGBA, alpha uint8) *image.NRGBA {
	b := src.Bounds()
	dst := newNRGBA(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			dst.SetNRGBA(x, y, color.NRGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: alpha})
		}
	}
	return dst
}

// opaque forces full alpha everywhere.
func opaque(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := newNRGBA(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			c.A = 255
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}

// withAlpha caps every pixel's alpha at the given level, so partly
// transparent pixels keep their own alpha.
func withAlpha(src *image.NRGBA, alpha uint8) *image.NRGBA {
	b := src.Bounds()
	dst := newNRGBA(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			c.A = clamp(c.A, 0, alpha)
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}

// fill creates a solid color image.
func fill(w, h int, c color.RGBA) *image.NRGBA {
	dst := newNRGBA(w, h)
	nc := color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetNRGBA(x, y, nc)
		}
	}
	return dst
}

// toNRGBA converts any image to NRGBA, sharing pixels when it already
// is one.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := newNRGBA(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// crop copies a rectangle out of an image.
func crop(src *image.NRGBA, r image.Rectangle) *image.NRGBA {
	r = r.Intersect(src.Bounds())
	dst := newNRGBA(r.Dx(), r.Dy())
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}
