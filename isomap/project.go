package isomap

import (
	"image"
	"image/color"

	"github.com/stuarthighley/rott/rtl"
	"github.com/stuarthighley/rott/tiledb"
)

// Screen geometry of the projection. A cell at (col,row) anchors at
// originX+(col-row)*64 horizontally and (col+row)*32 vertically; the
// floor diamond sits a level height below the anchor, with the walls
// filling the space between.
const (
	tileW   = 128
	halfW   = 64
	halfH   = 32
	originX = rtl.MapWidth * halfW
)

// skyInfo marks outdoor floor cells; walls draw no face toward them.
const skyInfo = 0xd

// Face paste offsets relative to the cell anchor, indexed by the
// direction of the neighbor the face borders.
var wallOffsets = [4]image.Point{
	rtl.Right: {0, 32},
	rtl.Up:    {0, 0},
	rtl.Left:  {-64, 0},
	rtl.Down:  {-64, 32},
}

// Top edge outline of each face, as from/to offsets.
var edgeOffsets = [4][2]image.Point{
	rtl.Right: {{0, 63}, {63, 31}},
	rtl.Up:    {{0, 0}, {63, 31}},
	rtl.Left:  {{-64, 31}, {0, 0}},
	rtl.Down:  {{-64, 31}, {0, 63}},
}

var faceOrder = [4]rtl.Direction{rtl.Up, rtl.Left, rtl.Down, rtl.Right}

var (
	edgeGray      = color.RGBA{R: 192, G: 192, B: 192, A: 255}
	obscuredTones = [2]color.RGBA{{R: 240, G: 240, B: 240, A: 255}, {R: 190, G: 190, B: 190, A: 255}}

	// markColor matches the difficulty-mark tint of the sprite tables.
	markColor = color.RGBA{R: 255, G: 64, B: 0, A: 255}

	textGreen      = color.RGBA{G: 255, A: 255}
	textGreenTones = [2]color.RGBA{{G: 152, A: 255}, {G: 108, A: 255}}

	switchYellow      = color.RGBA{R: 255, G: 255, A: 255}
	switchYellowTones = [2]color.RGBA{{R: 152, G: 152, A: 255}, {R: 108, G: 108, A: 255}}

	targetCyan      = color.RGBA{G: 255, B: 255, A: 255}
	targetCyanTones = [2]color.RGBA{{G: 152, B: 152, A: 255}, {G: 108, B: 108, A: 255}}
)

type itemKind int

const (
	itemFloor itemKind = iota
	itemWall
	itemThin
	itemSprite
)

// drawItem is one blit in painter's order. Sprite items carry their
// cell anchor and elevation for the occlusion pass.
type drawItem struct {
	kind      itemKind
	img       *image.NRGBA
	at        image.Point
	anchor    image.Point
	elev      int
	important bool
	edge      [2]image.Point
	hasEdge   bool
}

// annotation is drawn after every blit: a text label or an icon,
// optionally with a two-tone pointer line to the true position.
type annotation struct {
	img     *image.NRGBA
	text    string
	tint    color.RGBA
	at      image.Point
	line    [2]image.Point
	tones   [2]color.RGBA
	hasLine bool
}

// projector walks a level's planes and emits the ordered draw list.
type projector struct {
	level  *rtl.Level
	ts     *tileSet
	ss     *spriteSet
	height int

	items  []drawItem
	notes  []annotation
	extent image.Rectangle
}

func (p *projector) run() {
	for row := 0; row < rtl.MapHeight; row++ {
		for col := 0; col < rtl.MapWidth; col++ {
			p.cell(row, col)
		}
	}
	p.links()
}

func (p *projector) cell(row, col int) {
	index := row*rtl.MapWidth + col
	code := p.level.Walls[index]
	if code == 0 {
		return
	}
	isox := originX + (col-row)*halfW
	isoy := (col+row)*halfH
	info := p.level.Info[index]
	tile := p.ts.get(code)
	desc := tile.desc
	drawn := false

	solid := desc.IsSolid(info)
	if tile.floor[0] != nil && !solid {
		quad := tile.floor[col%2+row%2*2]
		p.items = append(p.items, drawItem{kind: itemFloor, img: quad, at: image.Pt(isox-halfW, isoy+p.height)})
		drawn = true
	}

	if solid && tile.walls[rtl.Right] != nil {
		for _, d := range faceOrder {
			adjIndex := p.level.Move(index, d, 1)
			adj := p.ts.get(p.level.Walls[adjIndex])
			if !faceVisible(adj, p.level.Info[adjIndex]) {
				continue
			}
			p.addWall(tile.walls[d], d, isox, isoy)
			drawn = true
		}
	}

	thin := !solid && desc.IsThin(info)
	orient := rtl.Right
	if thin {
		orient = p.thinOrientation(index, desc, info)
		if face := p.thinFace(tile, desc, orient, info); face != nil {
			p.items = append(p.items, drawItem{kind: itemThin, img: face, at: image.Pt(isox-32, isoy+16)})
			drawn = true
		}
		if tile.sideWalls[rtl.Right] != nil {
			for _, d := range faceOrder {
				adjIndex := p.level.Move(index, d, 1)
				adj := p.ts.get(p.level.Walls[adjIndex])
				if adj.desc.IsSolid(p.level.Info[adjIndex]) {
					p.addWall(tile.sideWalls[d], d, isox, isoy)
					drawn = true
				}
			}
		}
	}

	if p.sprite(index, row, col, tile, info, thin, orient, isox, isoy) {
		drawn = true
	}
	if drawn {
		p.extend(isox, isoy)
	}
}

func (p *projector) addWall(img *image.NRGBA, d rtl.Direction, isox, isoy int) {
	off := wallOffsets[d]
	e := edgeOffsets[d]
	p.items = append(p.items, drawItem{
		kind:    itemWall,
		img:     img,
		at:      image.Pt(isox+off.X, isoy+off.Y),
		edge:    [2]image.Point{{isox + e[0].X, isoy + e[0].Y}, {isox + e[1].X, isoy + e[1].Y}},
		hasEdge: true,
	})
}

// faceVisible reports whether a wall face toward this neighbor shows:
// walkable floor that is not sky, a thin wall without its own side
// texture, or a fully closed variable tile.
func faceVisible(adj *isoTile, info uint16) bool {
	switch adj.desc.Kind {
	case tiledb.TileFloor:
		return info != skyInfo
	case tiledb.TileThin:
		return adj.sideWalls[rtl.Right] == nil
	case tiledb.TileVariable:
		return info == 0
	}
	return false
}

// thinOrientation guesses which way a thin wall runs: along the
// column axis when flanked by solid walls east and west, or when the
// open difference lies north or south. An approximation, but the one
// the doors in the stock maps agree with.
func (p *projector) thinOrientation(index int, desc *tiledb.Tile, info uint16) rtl.Direction {
	solid := func(d rtl.Direction) bool {
		i := p.level.Move(index, d, 1)
		return p.ts.get(p.level.Walls[i]).desc.IsSolid(p.level.Info[i])
	}
	if solid(rtl.Left) && solid(rtl.Right) {
		return rtl.Up
	}
	for _, d := range []rtl.Direction{rtl.Up, rtl.Down} {
		i := p.level.Move(index, d, 1)
		adj := p.ts.get(p.level.Walls[i]).desc
		adjInfo := p.level.Info[i]
		if adj.IsSolid(adjInfo) {
			continue
		}
		if adj.Kind != desc.Kind || (tiledb.SpecialHeights[info] && !tiledb.SpecialHeights[adjInfo]) {
			return rtl.Up
		}
	}
	return rtl.Right
}

func (p *projector) thinFace(tile *isoTile, desc *tiledb.Tile, orient rtl.Direction, info uint16) *image.NRGBA {
	switch desc.Kind {
	case tiledb.TileThin:
		return tile.faces[orient]
	case tiledb.TileVariable:
		if int(info) < len(tile.varFaces[orient]) {
			return tile.varFaces[orient][info]
		}
		return nil
	}
	// Open tiles with a special height info raise the shared spacer.
	if int(info) < len(p.ts.spacer.varFaces[orient]) {
		return p.ts.spacer.varFaces[orient][info]
	}
	return nil
}

func (p *projector) sprite(index, row, col int, tile *isoTile, info uint16, thin bool, orient rtl.Direction, isox, isoy int) bool {
	code := p.level.Sprites[index]
	if code == 0 {
		return false
	}
	s := p.ss.get(code)
	if s == nil {
		return false
	}
	desc := s.desc
	switch {
	case desc.Kind == tiledb.SpriteBlank:
		return false

	case desc.Kind == tiledb.SpriteText:
		elev := tile.desc.SpriteHeight(info, p.height, true)
		p.notes = append(p.notes, annotation{
			text:    desc.Text,
			tint:    textGreen,
			at:      image.Pt(isox-56, isoy),
			hasLine: true,
			line:    [2]image.Point{{isox, isoy + 16}, {isox, isoy + p.height - elev + 32}},
			tones:   textGreenTones,
		})
		return false

	case desc.Kind == tiledb.SpriteGas && thin:
		if overlay := s.gasFaces[orient]; overlay != nil {
			p.items = append(p.items, drawItem{kind: itemThin, img: overlay, at: image.Pt(isox-32, isoy+16)})
			return true
		}
		return false
	}

	elev := tile.desc.SpriteHeight(info, p.height, desc.AllowFloat)
	drawn := false
	if img := p.ss.imageFor(s, info, image.Pt(col, row)); img != nil {
		p.items = append(p.items, drawItem{
			kind:      itemSprite,
			img:       img,
			at:        p.spritePos(s, img, isox, isoy, elev),
			anchor:    image.Pt(isox, isoy),
			elev:      elev,
			important: desc.Important,
		})
		drawn = true
	}

	// Keys get their badge and pointer regardless of occlusion.
	if desc.Kind == tiledb.SpriteKey && s.badge != nil {
		p.notes = append(p.notes, annotation{
			img:     s.badge,
			at:      image.Pt(isox-8, isoy-32),
			hasLine: true,
			line:    [2]image.Point{{isox, isoy}, {isox, isoy + p.height - 24 - elev}},
			tones:   desc.LineColors,
		})
	}
	return drawn
}

// spritePos anchors a drawable to its cell: ceiling pieces hang from
// the cell top, flattened markers cover the floor diamond, billboards
// stand on the floor minus their elevation.
func (p *projector) spritePos(s *isoSprite, img *image.NRGBA, isox, isoy, elev int) image.Point {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	switch s.desc.Kind {
	case tiledb.SpriteCeiling:
		return image.Pt(isox-w/2, isoy+16+s.heightOffset)
	case tiledb.SpriteFlat, tiledb.SpriteArrow:
		return image.Pt(isox-w/2, isoy+p.height-h+64-elev+s.heightOffset)
	}
	return image.Pt(isox-w/2, isoy+p.height+40-h+s.heightOffset-elev)
}

// links annotates switch sources in yellow and their targets in cyan.
// Timed triggers carry their schedule as the label on both ends.
func (p *projector) links() {
	for _, link := range p.level.Switches {
		label := link.Label
		if text, ok := p.level.Label(link.SwitchCell); ok {
			label = text
		}
		p.labelNote(link.SwitchCell, label, switchYellow, switchYellowTones, true)
		for _, target := range link.TargetCells {
			p.labelNote(target, label, targetCyan, targetCyanTones, false)
		}
	}
}

func (p *projector) labelNote(cell int, text string, tint color.RGBA, tones [2]color.RGBA, source bool) {
	col, row := cell%rtl.MapWidth, cell/rtl.MapWidth
	isox := originX + (col-row)*halfW
	isoy := (col+row) * halfH
	view := p.ts.get(p.level.Walls[cell]).desc.ViewHeight(p.level.Info[cell], p.height)

	at := image.Pt(isox-len(text)*4, isoy+16)
	if source && len(text) > 2 {
		at = image.Pt(isox-32, isoy+8)
	}
	note := annotation{text: text, tint: tint, at: at}
	// The pointer line only helps when the labeled object is short
	// enough to sit below the label.
	if view < p.height-64 {
		note.hasLine = true
		note.line = [2]image.Point{{isox, isoy + 48}, {isox, isoy + p.height - view + 32}}
		note.tones = tones
	}
	p.notes = append(p.notes, note)
}

func (p *projector) extend(isox, isoy int) {
	r := image.Rect(isox-halfW, isoy, isox+halfW, isoy+64+p.height)
	if p.extent.Empty() {
		p.extent = r
	} else {
		p.extent = p.extent.Union(r)
	}
}
