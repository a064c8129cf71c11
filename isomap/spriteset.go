package isomap

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"github.com/stuarthighley/rott/rtl"
	"github.com/stuarthighley/rott/tiledb"
	"github.com/stuarthighley/rott/wad"
)

// Billboard sprites assemble on a 128x128 canvas, bottom-aligned, then
// scale down to 96x96 so they sit inside a floor diamond.
const (
	spriteCanvas = 128
	spriteSize   = 96
)

// flatAlpha is the opacity of floor-flattened markers.
const flatAlpha = 128

// markPoint is where difficulty marks land on the scaled sprite.
var markPoint = image.Pt(52, 68)

var gasGreen = color.RGBA{R: 4, G: 96, B: 4, A: 255}

// playerColors are the palette bases the game cycles player uniforms
// through. Multicolor sprites pick one per cell.
var playerColors = []int{220, 60, 13, 168, 27, 95, 139, 118, 33, 231, 36}

// Small overlay glyphs, drawn as filled polygons at the glyph position.
var glyphPolygons = map[tiledb.Glyph][]image.Point{
	tiledb.GlyphRight:  {{22, 11}, {5, 11}, {9, 9}, {0, 5}, {8, 0}, {17, 4}, {22, 2}},
	tiledb.GlyphUp:     {{22, 0}, {5, 0}, {9, 2}, {0, 6}, {8, 11}, {17, 7}, {22, 9}},
	tiledb.GlyphLeft:   {{0, 0}, {17, 0}, {13, 2}, {22, 6}, {14, 11}, {5, 7}, {0, 9}},
	tiledb.GlyphDown:   {{0, 11}, {17, 11}, {13, 9}, {22, 5}, {14, 0}, {5, 4}, {0, 2}},
	tiledb.GlyphUpDown: {{0, 6}, {7, 0}, {8, 0}, {15, 6}, {10, 6}, {10, 9}, {15, 9}, {8, 15}, {7, 15}, {0, 9}, {5, 9}, {5, 6}},
}

// Full-tile arrows for flattened direction markers, drawn on the 64x64
// backdrop before flattening.
var (
	flatArrow     = []image.Point{{8, 20}, {32, 20}, {32, 8}, {56, 32}, {32, 56}, {32, 44}, {8, 44}}
	diagonalArrow = []image.Point{{16, 12}, {52, 12}, {52, 46}, {42, 38}, {26, 54}, {8, 36}, {24, 20}}
)

// isoSprite is one sprite code resolved to ready-to-place images.
type isoSprite struct {
	desc *tiledb.Sprite

	// img is the scaled billboard for the simple kinds. Indexed
	// sprites fill indexed instead; multicolor sprites keep the
	// palette-indexed picture and recolor per cell.
	img       *image.NRGBA
	indexed   map[uint16]*image.NRGBA
	multi     *wad.Picture
	multiImgs map[int]*image.NRGBA

	// badge is the overhead key icon, drawn unconditionally.
	badge *image.NRGBA

	// gasFaces overlay gas-locked doors in the door's orientation.
	gasFaces [2]*image.NRGBA

	heightOffset int
}

// spriteSet resolves sprite codes against the archive for one level.
// Resolution is lazy; a sprite that never appears never loads.
type spriteSet struct {
	r        *Renderer
	height   int
	size     int
	table    *tiledb.SpriteTable
	markFont *labelFont
	cache    map[*tiledb.Sprite]*isoSprite
	byCode   map[uint16]*isoSprite
}

func (r *Renderer) newSpriteSet(height int, markFont *labelFont) *spriteSet {
	size := int(float64(spriteCanvas) * r.opts.SpriteScale)
	if size < 1 {
		size = spriteSize
	}
	return &spriteSet{
		r:        r,
		height:   height,
		size:     size,
		table:    tiledb.Sprites(),
		markFont: markFont,
		cache:    map[*tiledb.Sprite]*isoSprite{},
		byCode:   map[uint16]*isoSprite{},
	}
}

// get resolves a sprite code. Resolution failures degrade to the
// placeholder box so one missing lump cannot sink a level.
func (ss *spriteSet) get(code uint16) *isoSprite {
	if s, ok := ss.byCode[code]; ok {
		return s
	}
	desc, known := ss.table.Get(code)
	if desc == nil {
		ss.byCode[code] = nil
		return nil
	}
	if !known {
		logger.Printf("unrecognized sprite code %v", code)
	}
	if s, ok := ss.cache[desc]; ok {
		ss.byCode[code] = s
		return s
	}
	s, err := ss.resolve(desc)
	if err != nil {
		logger.Printf("sprite code %v: %v", code, err)
		s = &isoSprite{desc: desc, img: ss.placeholderBox(int(code))}
	}
	ss.cache[desc] = s
	ss.byCode[code] = s
	return s
}

func (ss *spriteSet) resolve(desc *tiledb.Sprite) (*isoSprite, error) {
	s := &isoSprite{desc: desc, heightOffset: desc.HeightOffset}
	switch desc.Kind {
	case tiledb.SpriteBlank, tiledb.SpriteText:
		return s, nil

	case tiledb.SpriteStandard, tiledb.SpriteCeiling, tiledb.SpriteComposite:
		img, err := ss.billboard(desc.Images, desc.Offsets)
		if err != nil {
			return nil, err
		}
		if desc.Glyph != tiledb.GlyphNone {
			if err := drawGlyph(img, desc.Glyph, desc.GlyphPos, desc.GlyphColor); err != nil {
				return nil, err
			}
		}
		ss.markSprite(img, desc)
		s.img = img

	case tiledb.SpriteIndexed:
		s.indexed = make(map[uint16]*image.NRGBA, len(desc.Indexed))
		for info, ref := range desc.Indexed {
			img, err := ss.billboard([]tiledb.ImageRef{ref}, nil)
			if err != nil {
				return nil, err
			}
			s.indexed[info] = img
		}

	case tiledb.SpriteFlat:
		img, err := ss.flatImage(desc)
		if err != nil {
			return nil, err
		}
		s.img = img

	case tiledb.SpriteArrow:
		img, err := arrowImage(desc)
		if err != nil {
			return nil, err
		}
		s.img = img

	case tiledb.SpriteKey:
		if err := ss.resolveKey(desc, s); err != nil {
			return nil, err
		}

	case tiledb.SpriteGas:
		img, err := ss.billboard(desc.Images, nil)
		if err != nil {
			return nil, err
		}
		s.img = img
		full := stackColumn([]*image.NRGBA{fillAlpha(64, 64, gasGreen, flatAlpha)}, ss.height)
		s.gasFaces[rtl.Up] = leftSkew(full)
		s.gasFaces[rtl.Right] = rightSkew(full)

	case tiledb.SpriteMultiColor:
		pic, err := ss.r.picture(desc.Images[0])
		if err != nil {
			return nil, err
		}
		s.multi = pic
		s.multiImgs = map[int]*image.NRGBA{}

	case tiledb.SpritePlaceholder:
		s.img = ss.placeholderBox(desc.Debug)

	default:
		return nil, fmt.Errorf("unhandled sprite kind %v", desc.Kind)
	}
	return s, nil
}

// imageFor picks the drawable for a concrete cell, resolving indexed
// and multicolor variants.
func (ss *spriteSet) imageFor(s *isoSprite, info uint16, cell image.Point) *image.NRGBA {
	switch {
	case s.desc.Kind == tiledb.SpriteIndexed && s.indexed != nil:
		if img, ok := s.indexed[info]; ok {
			return img
		}
		return s.indexed[0]
	case s.desc.Kind == tiledb.SpriteMultiColor && s.multi != nil:
		return ss.multiImage(s, cell)
	}
	return s.img
}

func (ss *spriteSet) multiImage(s *isoSprite, cell image.Point) *image.NRGBA {
	base := playerColors[(cell.X*7+cell.Y*13)%len(playerColors)]
	if img, ok := s.multiImgs[base]; ok {
		return img
	}
	img, err := ss.r.pictureImage(recolorPicture(s.multi, base))
	if err != nil {
		logger.Printf("sprite %v: %v", s.multi.Name, err)
		img = ss.placeholderBox(s.desc.Debug)
		s.multiImgs[base] = img
		return img
	}
	img = scaleTo(bottomCenter(img), ss.size, ss.size)
	ss.markSprite(img, s.desc)
	s.multiImgs[base] = img
	return img
}

// billboard composes lumps bottom-aligned on the sprite canvas and
// scales the result down.
func (ss *spriteSet) billboard(refs []tiledb.ImageRef, offsets []image.Point) (*image.NRGBA, error) {
	canvas := newNRGBA(spriteCanvas, spriteCanvas)
	for i, ref := range refs {
		img, err := ss.r.refImage(ref)
		if err != nil {
			return nil, err
		}
		at := image.Pt((spriteCanvas-img.Bounds().Dx())/2, spriteCanvas-img.Bounds().Dy())
		if offsets != nil {
			at = at.Add(offsets[i])
		}
		paste(canvas, img, at)
	}
	return scaleTo(canvas, ss.size, ss.size), nil
}

func bottomCenter(img *image.NRGBA) *image.NRGBA {
	canvas := newNRGBA(spriteCanvas, spriteCanvas)
	paste(canvas, img, image.Pt((spriteCanvas-img.Bounds().Dx())/2, spriteCanvas-img.Bounds().Dy()))
	return canvas
}

func (ss *spriteSet) markSprite(img *image.NRGBA, desc *tiledb.Sprite) {
	if mark := desc.Mark(); mark != "" && ss.markFont != nil {
		ss.markFont.Write(img, markPoint, mark)
	}
}

// flatImage lays a lump over its backdrop, turns it to face the marker
// direction and flattens it onto the floor.
func (ss *spriteSet) flatImage(desc *tiledb.Sprite) (*image.NRGBA, error) {
	bg := fill(64, 64, desc.Background)
	img, err := ss.r.refImage(desc.Images[0])
	if err != nil {
		return nil, err
	}
	paste(bg, img, desc.GlyphPos)
	bg = rotateQuarters(bg, desc.Rotation/90)
	return withAlpha(floorSkew(bg), flatAlpha), nil
}

// arrowImage draws the directional marker polygon and flattens it. The
// directionless variant gets the ellipse.
func arrowImage(desc *tiledb.Sprite) (*image.NRGBA, error) {
	bg := fill(64, 64, desc.Background)
	var err error
	switch {
	case desc.Direction == rtl.NoDir:
		err = fillEllipse(bg, 32, 32, 24, 24, desc.GlyphColor)
	case desc.Diagonal:
		err = fillPolygon(bg, diagonalArrow, image.Point{}, desc.GlyphColor)
	default:
		err = fillPolygon(bg, flatArrow, image.Point{}, desc.GlyphColor)
	}
	if err != nil {
		return nil, err
	}
	if desc.Direction != rtl.NoDir {
		bg = rotateQuarters(bg, int(desc.Direction))
	}
	return withAlpha(floorSkew(bg), flatAlpha), nil
}

func (ss *spriteSet) resolveKey(desc *tiledb.Sprite, s *isoSprite) error {
	pic, err := ss.r.picture(desc.Images[0])
	if err != nil {
		return err
	}
	img, err := ss.r.pictureImage(recolorPicture(pic, desc.ColorIndex))
	if err != nil {
		return err
	}
	s.img = scaleTo(bottomCenter(img), ss.size, ss.size)

	badge, err := ss.r.refImage(desc.Badge)
	if err != nil {
		return err
	}
	s.badge = doubleScale(badge)
	return nil
}

// placeholderBox stands in for codes with no resolvable art, labeled
// with the raw code value.
func (ss *spriteSet) placeholderBox(code int) *image.NRGBA {
	img := newNRGBA(ss.size, ss.size)
	box := fillAlpha(48, 48, color.RGBA{R: 160, G: 160, B: 160, A: 255}, 200)
	at := image.Pt((ss.size-48)/2, ss.size-60)
	copyTo(img, box, at)
	if ss.markFont != nil {
		ss.markFont.Write(img, at.Add(image.Pt(6, 16)), fmt.Sprintf("%v", code))
	}
	return img
}

// recolorPicture shifts the shared uniform palette band to another
// color base, leaving every other index alone.
func recolorPicture(pic *wad.Picture, base int) *wad.Picture {
	clone := *pic
	clone.Pixels = append([]byte(nil), pic.Pixels...)
	for i, p := range clone.Pixels {
		if p >= 158 && p <= 168 {
			clone.Pixels[i] = byte(int(p) - 168 + base)
		}
	}
	return &clone
}

func fillAlpha(w, h int, c color.RGBA, alpha uint8) *image.NRGBA {
	c.A = alpha
	return fill(w, h, c)
}

func drawGlyph(dst *image.NRGBA, g tiledb.Glyph, at image.Point, col color.RGBA) error {
	if g == tiledb.GlyphEllipse {
		return fillEllipse(dst, float64(at.X)+11, float64(at.Y)+5.5, 11, 5.5, col)
	}
	return fillPolygon(dst, glyphPolygons[g], at, col)
}

func fillPolygon(dst *image.NRGBA, pts []image.Point, at image.Point, col color.RGBA) error {
	ctx := gg.NewContextForImage(dst)
	ctx.SetColor(col)
	ctx.MoveTo(float64(at.X+pts[0].X), float64(at.Y+pts[0].Y))
	for _, p := range pts[1:] {
		ctx.LineTo(float64(at.X+p.X), float64(at.Y+p.Y))
	}
	ctx.ClosePath()
	if err := ctx.Fill(); err != nil {
		return err
	}
	copyTo(dst, toNRGBA(ctx.Image()), image.Point{})
	return nil
}

func fillEllipse(dst *image.NRGBA, cx, cy, rx, ry float64, col color.RGBA) error {
	ctx := gg.NewContextForImage(dst)
	ctx.SetColor(col)
	ctx.DrawEllipse(cx, cy, rx, ry)
	if err := ctx.Fill(); err != nil {
		return err
	}
	copyTo(dst, toNRGBA(ctx.Image()), image.Point{})
	return nil
}
