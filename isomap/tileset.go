package isomap

import (
	"fmt"
	"image"
	"image/color"

	"github.com/stuarthighley/rott/rtl"
	"github.com/stuarthighley/rott/tiledb"
	"github.com/stuarthighley/rott/wad"
)

// backAlpha is the opacity of the darkened back faces of solid walls.
const backAlpha = 96

var placeholderGray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

func (r *Renderer) lumpFor(ref tiledb.ImageRef) (*wad.LumpInfo, error) {
	if ref.Index >= 0 {
		section := r.wad.Section(ref.Section)
		if ref.Index >= len(section) {
			return nil, fmt.Errorf("section %v has no lump %v", ref.Section, ref.Index)
		}
		return section[ref.Index], nil
	}
	lumpInfo, ok := r.wad.Lump(ref.Name)
	if !ok {
		return nil, fmt.Errorf("%v lump not found", ref.Name)
	}
	return lumpInfo, nil
}

func (r *Renderer) picture(ref tiledb.ImageRef) (*wad.Picture, error) {
	lumpInfo, err := r.lumpFor(ref)
	if err != nil {
		return nil, err
	}
	return r.wad.GetPicture(lumpInfo)
}

func (r *Renderer) pictureImage(pic *wad.Picture) (*image.NRGBA, error) {
	return pic.Image(r.wad.Palette)
}

// refImage resolves an image reference to pixels. The zero reference
// resolves to a fully transparent square.
func (r *Renderer) refImage(ref tiledb.ImageRef) (*image.NRGBA, error) {
	if ref.IsZero() {
		return newNRGBA(64, 64), nil
	}
	pic, err := r.picture(ref)
	if err != nil {
		return nil, err
	}
	return pic.Image(r.wad.Palette)
}

func (r *Renderer) refImages(refs []tiledb.ImageRef, forceOpaque bool) ([]*image.NRGBA, error) {
	images := make([]*image.NRGBA, len(refs))
	for i, ref := range refs {
		img, err := r.refImage(ref)
		if err != nil {
			return nil, err
		}
		if forceOpaque && !ref.IsZero() {
			img = opaque(img)
		}
		images[i] = img
	}
	return images, nil
}

// isoTile is one wall code resolved to ready-to-place images for a
// particular level height.
type isoTile struct {
	desc *tiledb.Tile

	// walls holds the four skewed column faces of a solid wall. Back
	// faces are darkened and translucent. Nil when the tile draws no
	// wall edges.
	walls [4]*image.NRGBA

	// sideWalls are the jamb faces a door or spacer draws toward its
	// solid neighbors, from the tile's side texture.
	sideWalls [4]*image.NRGBA

	// faces holds a thin wall's centered face per orientation,
	// indexed by rtl.Right and rtl.Up. Variable tiles instead carry
	// one face per special height info value.
	faces    [2]*image.NRGBA
	varFaces [2][10]*image.NRGBA

	// floor holds the four ground diamonds for floor tiles.
	floor [4]*image.NRGBA
}

// tileSet resolves a wall table against the archive for one level.
type tileSet struct {
	height int
	table  *tiledb.WallTable
	tiles  map[*tiledb.Tile]*isoTile
	spacer *isoTile
	floor  [4]*image.NRGBA
}

func (ts *tileSet) get(code uint16) *isoTile {
	return ts.tiles[ts.table.Get(code)]
}

func (r *Renderer) newTileSet(floorSet, height int) (*tileSet, error) {
	table := tiledb.Walls(floorSet)
	ts := &tileSet{height: height, table: table, tiles: map[*tiledb.Tile]*isoTile{}}

	floorImg, err := r.refImage(table.Floor)
	if err != nil {
		return nil, fmt.Errorf("floor set %v: %w", floorSet, err)
	}
	ts.floor = floorQuads(floorImg)

	for _, desc := range table.Tiles {
		if _, ok := ts.tiles[desc]; ok {
			continue
		}
		tile, err := r.buildTile(desc, height, ts.floor)
		if err != nil {
			return nil, err
		}
		ts.tiles[desc] = tile
	}
	ts.spacer, err = r.buildTile(table.Spacer, height, ts.floor)
	if err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *Renderer) buildTile(desc *tiledb.Tile, height int, floor [4]*image.NRGBA) (*isoTile, error) {
	tile := &isoTile{desc: desc}
	switch desc.Kind {
	case tiledb.TileEmpty:
		return tile, nil

	case tiledb.TileFloor:
		tile.floor = floor
		return tile, nil

	case tiledb.TileWall:
		images, err := r.wallImages(desc)
		if err != nil {
			return nil, err
		}
		tile.walls = skewWalls(stackColumn(images, height))
		return tile, nil

	case tiledb.TileThin:
		faces, err := r.refImages(desc.Faces, desc.Opaque)
		if err != nil {
			return nil, err
		}
		full := stackColumn(faces, height)
		tile.faces[rtl.Up] = leftSkew(full)
		tile.faces[rtl.Right] = rightSkew(mirror(full))
		tile.floor = floor
		if err := r.buildSides(tile, desc, height); err != nil {
			return nil, err
		}
		return tile, nil

	case tiledb.TileVariable:
		faces, err := r.refImages(desc.Faces, false)
		if err != nil {
			return nil, err
		}
		for info, full := range variableColumns(faces, height) {
			if full == nil {
				continue
			}
			tile.varFaces[rtl.Up][info] = leftSkew(full)
			tile.varFaces[rtl.Right][info] = rightSkew(full)
		}
		// Closed variable tiles draw as a solid wall built from the
		// full segment stack.
		tile.walls = skewWalls(stackColumn(variableStack(faces), height))
		tile.floor = floor
		if err := r.buildSides(tile, desc, height); err != nil {
			return nil, err
		}
		return tile, nil
	}
	return nil, fmt.Errorf("unhandled tile kind %v", desc.Kind)
}

func (r *Renderer) buildSides(tile *isoTile, desc *tiledb.Tile, height int) error {
	if desc.Sides == nil {
		return nil
	}
	sides, err := r.refImages(desc.Sides, true)
	if err != nil {
		return err
	}
	tile.sideWalls = skewWalls(stackColumn(sides, height))
	return nil
}

// variableStack picks the pieces of a fully closed variable column:
// base, middle panel, top panel.
func variableStack(images []*image.NRGBA) []*image.NRGBA {
	if len(images) > 5 {
		return []*image.NRGBA{images[0], images[3], images[4]}
	}
	return images[:1]
}

// wallImages resolves a solid wall's face stack, substituting the gray
// placeholder for unrecognized codes.
func (r *Renderer) wallImages(desc *tiledb.Tile) ([]*image.NRGBA, error) {
	if desc.Faces == nil {
		return []*image.NRGBA{fill(64, 64, placeholderGray)}, nil
	}
	return r.refImages(desc.Faces, true)
}

// stackColumn assembles a 64-wide column of the given height from a
// bottom-up image stack: the first image is ground level, the last
// covers the topmost band, anything between fills the middle.
func stackColumn(images []*image.NRGBA, height int) *image.NRGBA {
	full := newNRGBA(64, height)
	bot := images[0]
	mid, top := bot, bot
	if len(images) > 1 {
		mid, top = images[1], images[1]
	}
	if len(images) > 2 {
		top = images[2]
	}
	numTiles := height / 64
	for pos := 0; pos < numTiles; pos++ {
		img := mid
		if pos == 0 && numTiles > 1 {
			img = top
		} else if pos == numTiles-1 {
			img = bot
		}
		copyTo(full, img, image.Pt(0, pos*64))
	}
	return full
}

// skewWalls builds the four directional faces of a wall column. Front
// faces keep the texture; back faces are darkened and translucent so
// the interior stays visible.
func skewWalls(full *image.NRGBA) [4]*image.NRGBA {
	back := darkenBack(full, backAlpha)
	var walls [4]*image.NRGBA
	walls[rtl.Right] = rightSkew(full)
	walls[rtl.Down] = leftSkew(full)
	walls[rtl.Left] = rightSkew(back)
	walls[rtl.Up] = leftSkew(back)
	return walls
}

// variableColumns assembles one column per special height info value.
// The six segment pieces, in order: base, short base, middle, middle
// end, top, ceiling stub. Single-image variable walls reuse their one
// piece for the solid segments and leave the open ones transparent.
func variableColumns(images []*image.NRGBA, height int) [10]*image.NRGBA {
	blank := newNRGBA(64, 64)
	bot, botShort, mid, midEnd, top, topEnd := images[0], images[0], images[0], blank, blank, images[0]
	if len(images) > 5 {
		botShort, midEnd, mid, top, topEnd = images[1], images[2], images[3], images[4], images[5]
	}

	var columns [10]*image.NRGBA
	for info := range tiledb.SpecialHeights {
		columns[info] = newNRGBA(64, height)
	}
	put := func(info int, img *image.NRGBA, pos int) {
		copyTo(columns[info], img, image.Pt(0, pos*64))
	}

	numTiles := height / 64
	for pos := 0; pos < numTiles; pos++ {
		switch {
		case numTiles == 1:
			// Single-height maps never occur in practice; fill every
			// slot with a solid middle panel.
			for info := range tiledb.SpecialHeights {
				put(int(info), mid, pos)
			}
		case pos == 0:
			put(4, topEnd, pos)
			if numTiles == 2 {
				put(7, topEnd, pos)
				put(8, topEnd, pos)
			} else {
				put(6, topEnd, pos)
				put(7, mid, pos)
				put(8, top, pos)
				put(9, top, pos)
				put(1, top, pos)
			}
		case pos == numTiles-1:
			put(5, botShort, pos)
			put(6, botShort, pos)
			if numTiles == 2 {
				put(9, botShort, pos)
				put(1, botShort, pos)
			} else {
				put(7, midEnd, pos)
				put(8, midEnd, pos)
				put(9, bot, pos)
				put(1, bot, pos)
			}
		default:
			for _, info := range []int{1, 7, 8, 9} {
				put(info, mid, pos)
			}
		}
	}
	return columns
}
