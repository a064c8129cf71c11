// Package tiledb is the classification registry for level plane codes.
// It maps wall plane values to tile descriptors and sprite plane values
// to sprite descriptors. Descriptors are pure data: they name archive
// images and carry draw rules, but never touch the archive themselves.
// The renderer resolves the references and owns all pixel work.
package tiledb

// ImageRef names one archive image, either by lump name or by ordinal
// position within a directory section. A zero ImageRef stands for a
// fully transparent image.
type ImageRef struct {
	Section string
	Name    string
	Index   int
}

// ByName references a lump by section and name.
func ByName(section, name string) ImageRef {
	return ImageRef{Section: section, Name: name, Index: -1}
}

// ByIndex references a lump by its ordinal position within a section.
func ByIndex(section string, index int) ImageRef {
	return ImageRef{Section: section, Index: index}
}

// IsZero reports whether this reference names no image at all.
func (r ImageRef) IsZero() bool {
	return r.Section == ""
}

// TileKind classifies what a wall plane code stands for.
type TileKind int

const (
	TileEmpty TileKind = iota
	TileWall
	TileThin
	TileVariable
	TileFloor
)

// SpecialHeights are the info values that raise a partial-height spacer
// wall on an otherwise open tile, or thin out a variable tile.
var SpecialHeights = map[uint16]bool{
	1: true, 4: true, 5: true, 6: true, 7: true, 8: true, 9: true,
}

// Tile describes one wall plane code.
type Tile struct {
	Kind TileKind

	// Faces stacks the tile textures bottom up. One entry repeats for
	// the whole column; with two the second covers everything above
	// ground level; with three the third is the topmost band only.
	// Variable tiles instead list the six spacer segment pieces.
	// A nil Faces on a wall tile is the placeholder for an
	// unrecognized code.
	Faces []ImageRef

	// Opaque forces the faces fully solid, ignoring source
	// transparency. Doors set this; windows and grates do not.
	Opaque bool

	// Sides replaces the texture of any adjacent solid wall edge.
	// Nil when this tile leaves its neighbors alone.
	Sides []ImageRef

	// ViewHeightOverride caps how much vertical space the tile
	// obscures. Only fences use it; -1 means no override.
	ViewHeightOverride int

	// Debug carries the unrecognized wall code for placeholders.
	Debug int
}

// IsSolid reports whether the tile blocks its full cell for the given
// info value. Variable tiles thin out on special height values.
func (t *Tile) IsSolid(info uint16) bool {
	switch t.Kind {
	case TileWall:
		return true
	case TileVariable:
		return !SpecialHeights[info]
	}
	return false
}

// IsThin reports whether the tile draws as a centered thin wall for the
// given info value. Open tiles become thin spacers on special height
// values.
func (t *Tile) IsThin(info uint16) bool {
	switch t.Kind {
	case TileThin:
		return true
	case TileWall:
		return false
	case TileVariable:
		return SpecialHeights[info]
	}
	return SpecialHeights[info]
}

// SpriteHeight is the height above the floor at which a sprite on this
// tile sits, for a level of the given wall height. Special height
// values put the sprite on top of the spacer; info values of 0xB000
// and up float the sprite freely when the sprite allows it.
func (t *Tile) SpriteHeight(info uint16, height int, allowFloat bool) int {
	switch {
	case SpecialHeights[info]:
		switch info {
		case 1, 9:
			return height - 64
		case 5, 6:
			return 64
		}
		return 0
	case t.IsSolid(info) || t.IsThin(info):
		return height
	case allowFloat:
		if info >= 0xB0F0 {
			return (int(info) - 0xB100) * 4
		}
		if info >= 0xB000 {
			return (int(info) - 0xB000) * 4
		}
	}
	return 0
}

// ViewHeight is how much vertical space this tile obscures when drawn,
// for a level of the given wall height.
func (t *Tile) ViewHeight(info uint16, height int) int {
	switch {
	case t.ViewHeightOverride > 0:
		return t.ViewHeightOverride
	case SpecialHeights[info]:
		switch info {
		case 1, 8, 9:
			return height - 64
		case 5:
			return 64
		}
		return height
	case t.IsSolid(info) || t.IsThin(info):
		return height
	}
	return 0
}

// Plane identifies which data plane a code was read from. Arrow codes
// change meaning with the plane they sit in.
type Plane int

const (
	WallsPlane Plane = iota
	SpritesPlane
	InfoPlane
)

// Role is the structural meaning of an arrow code.
type Role int

const (
	// RoleNone marks a code with no arrow semantics.
	RoleNone Role = iota
	// RolePushwall marks a wall that slides in the arrow direction.
	RolePushwall
	// RoleRedirector marks a floor cell that turns moving entities
	// toward the arrow direction.
	RoleRedirector
)
