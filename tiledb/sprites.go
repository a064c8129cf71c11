package tiledb

import (
	"fmt"
	"image"
	"image/color"

	"github.com/stuarthighley/rott/rtl"
)

// SpriteKind classifies how a sprite plane code is drawn.
type SpriteKind int

const (
	// SpriteStandard draws one billboard image at the cell.
	SpriteStandard SpriteKind = iota
	// SpriteCeiling hangs its image from the ceiling.
	SpriteCeiling
	// SpriteText draws a label with a pointer line instead of art.
	SpriteText
	// SpriteIndexed picks its image by the cell's info value.
	SpriteIndexed
	// SpriteBlank is a known code with no visual component.
	SpriteBlank
	// SpriteComposite pastes several lumps into one billboard.
	SpriteComposite
	// SpriteFlat flattens a lump over a colored backdrop onto the floor.
	SpriteFlat
	// SpriteArrow is a flattened directional marker. Its meaning
	// depends on the plane it appears in; see Role.
	SpriteArrow
	// SpriteKey is a recolored key with a lock texture for doors and
	// an unconditional overhead badge.
	SpriteKey
	// SpriteGas carries a green overlay for gas-locked doors.
	SpriteGas
	// SpriteMultiColor redraws in a random palette range per cell.
	SpriteMultiColor
	// SpritePlaceholder is the fallback for unrecognized codes.
	SpritePlaceholder
)

// Glyph is an overlay shape drawn onto a sprite image.
type Glyph int

const (
	GlyphNone Glyph = iota
	GlyphRight
	GlyphUp
	GlyphLeft
	GlyphDown
	GlyphUpDown
	GlyphEllipse
)

// ArrowGlyph returns the arrow glyph pointing in a map direction.
func ArrowGlyph(d rtl.Direction) Glyph {
	return GlyphRight + Glyph(d)
}

// Sprite describes one sprite plane code. Only the fields relevant to
// the Kind are set.
type Sprite struct {
	Kind SpriteKind

	// Images composing the billboard, with per-lump paste offsets for
	// composites. Indexed sprites use Indexed instead, keyed by info
	// value with 0 as the fallback.
	Images  []ImageRef
	Offsets []image.Point
	Indexed map[uint16]ImageRef

	Text         string
	HeightOffset int
	Important    bool
	AllowFloat   bool

	// Enemy difficulty bits, also rendered as a small mark in the
	// level font next to the sprite.
	Hard       bool
	Ambush     bool
	Patrolling bool

	Glyph      Glyph
	GlyphPos   image.Point
	GlyphColor color.RGBA

	// Flat sprite fields. Rotation is in degrees counter-clockwise
	// from a rightward facing, applied before flattening.
	Background color.RGBA
	Direction  rtl.Direction
	Diagonal   bool
	Rotation   int

	// Key sprite fields. ColorIndex recolors the shared key art;
	// Badge is the overhead icon. The matching lock textures live in
	// the wall table with the locked door codes.
	ColorIndex int
	Badge      ImageRef
	LineColors [2]color.RGBA

	// Debug carries the unrecognized code for placeholders.
	Debug int
}

// Role resolves the plane duality of arrow codes: in the walls plane an
// arrow marks a pushwall sliding in its direction, in the sprites or
// info plane it redirects moving entities crossing the cell.
func (s *Sprite) Role(p Plane) Role {
	if s.Kind != SpriteArrow {
		return RoleNone
	}
	if p == WallsPlane {
		return RolePushwall
	}
	return RoleRedirector
}

// Mark is the difficulty annotation written next to enemy sprites.
func (s *Sprite) Mark() string {
	mark := ""
	if s.Hard {
		mark += "^"
	}
	if s.Ambush {
		mark += "!"
	}
	return mark
}

// SpriteTable maps sprite plane codes to descriptors.
type SpriteTable struct {
	sprites map[uint16]*Sprite
}

// Get returns the descriptor for a sprite code. Unrecognized nonzero
// codes come back as a placeholder descriptor so rendering degrades
// instead of failing; the second return reports whether the code was
// known.
func (t *SpriteTable) Get(code uint16) (*Sprite, bool) {
	if code == 0 {
		return nil, true
	}
	if s, ok := t.sprites[code]; ok {
		return s, true
	}
	return &Sprite{Kind: SpritePlaceholder, Debug: int(code)}, false
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func shap(name string) []ImageRef {
	return []ImageRef{ByName("SHAP", name)}
}

// markColor colors difficulty marks and directional trap glyphs.
var markColor = rgb(255, 64, 0)

var blueGlyph = rgb(0, 0, 255)

// dirSuffixes order matches the Direction enum: +x, -y, -x, +y.
var dirSuffixes = [4]string{"8", "6", "4", "2"}

func (t *SpriteTable) set(code int, s *Sprite) {
	t.sprites[uint16(code)] = s
}

func (t *SpriteTable) std(code int, name string, heightOffset int, important bool) {
	t.set(code, &Sprite{
		Kind:         SpriteStandard,
		Images:       shap(name),
		HeightOffset: heightOffset,
		Important:    important,
		AllowFloat:   true,
	})
}

// enemy fills four directional slots from base. Standing enemies use
// the SHAP S-series lumps, patrolling ones the W2 walking series.
func (t *SpriteTable) enemy(base int, stem string, hard, ambush, patrol bool) {
	series := stem + "S"
	if patrol {
		series = stem + "W2"
	}
	for i, suffix := range dirSuffixes {
		t.set(base+i, &Sprite{
			Kind:       SpriteStandard,
			Images:     shap(series + suffix),
			AllowFloat: true,
			Hard:       hard,
			Ambush:     ambush,
			Patrolling: patrol,
		})
	}
}

// enemyNamed is for enemies whose four directional lumps do not follow
// the S-series naming.
func (t *SpriteTable) enemyNamed(base int, names [4]string, hard bool) {
	for i, name := range names {
		t.set(base+i, &Sprite{
			Kind:       SpriteStandard,
			Images:     shap(name),
			AllowFloat: true,
			Hard:       hard,
		})
	}
}

// guardFamily lays out the six standard blocks of a guard enemy:
// easy and hard rows of standing, patrolling and ambushing variants.
func (t *SpriteTable) guardFamily(stem string, easy, easyPatrol, easyAmbush, hard, hardPatrol, hardAmbush int) {
	t.enemy(easy, stem, false, false, false)
	t.enemy(easyPatrol, stem, false, false, true)
	t.enemy(easyAmbush, stem, false, true, false)
	t.enemy(hard, stem, true, false, false)
	t.enemy(hardPatrol, stem, true, false, true)
	t.enemy(hardAmbush, stem, true, true, false)
}

func (t *SpriteTable) ceiling(code int, name string, glyph Glyph, pos image.Point, col color.RGBA) {
	t.set(code, &Sprite{
		Kind:       SpriteCeiling,
		Images:     shap(name),
		AllowFloat: true,
		Glyph:      glyph,
		GlyphPos:   pos,
		GlyphColor: col,
	})
}

func (t *SpriteTable) glyphed(code int, name string, heightOffset int, glyph Glyph, pos image.Point, col color.RGBA) {
	t.set(code, &Sprite{
		Kind:         SpriteStandard,
		Images:       shap(name),
		HeightOffset: heightOffset,
		AllowFloat:   true,
		Glyph:        glyph,
		GlyphPos:     pos,
		GlyphColor:   col,
	})
}

func (t *SpriteTable) arrow(code int, d rtl.Direction, diagonal bool, col color.RGBA) {
	t.set(code, &Sprite{
		Kind:       SpriteArrow,
		Background: rgb(128, 128, 128),
		Direction:  d,
		Diagonal:   diagonal,
		GlyphColor: col,
		AllowFloat: true,
	})
}

func (t *SpriteTable) key(number, colorIndex int, bright, dark color.RGBA) {
	t.set(28+number, &Sprite{
		Kind:       SpriteKey,
		Images:     shap("GKEY1"),
		ColorIndex: colorIndex,
		Badge:      ByName("General", fmt.Sprintf("KEY%v", number)),
		LineColors: [2]color.RGBA{bright, dark},
		AllowFloat: true,
	})
}

// Sprites builds the sprite code table.
func Sprites() *SpriteTable {
	t := &SpriteTable{sprites: map[uint16]*Sprite{}}
	t.assignStarts()
	t.assignEnemies()
	t.assignStatics()
	t.assignDynamics()
	return t
}

func (t *SpriteTable) assignStarts() {
	// Player starts come in four facings and draw in a random player
	// color, like the game does.
	for i, name := range []string{"CASS6", "CASS8", "CASS2", "CASS4"} {
		t.set(19+i, &Sprite{
			Kind:       SpriteMultiColor,
			Images:     shap(name),
			Important:  true,
			AllowFloat: true,
		})
	}
	for i, name := range []string{"BARS6", "BARS8", "BARS2", "BARS4"} {
		t.set(274+i, &Sprite{
			Kind:       SpriteMultiColor,
			Images:     shap(name),
			AllowFloat: true,
		})
	}

	// Exit triggers and the ambient wind marker have no art.
	t.set(106, &Sprite{Kind: SpriteBlank})
	t.set(107, &Sprite{Kind: SpriteBlank})
	t.set(460, &Sprite{Kind: SpriteBlank})

	for i := 0; i < 8; i++ {
		t.set(90+i, &Sprite{Kind: SpriteText, Text: fmt.Sprintf("Elevator %v", i+1)})
	}
}

func (t *SpriteTable) assignEnemies() {
	// The random enemy marker shows one candidate of each guard type.
	randoms := []struct {
		names   [3]string
		offsets [3]image.Point
	}{
		{[3]string{"LWGS8", "LIGS8", "HG2S8"}, [3]image.Point{image.Pt(-32, -16), image.Pt(32, -16), image.Pt(0, 0)}},
		{[3]string{"LIGS6", "HG2S6", "LWGS6"}, [3]image.Point{image.Pt(0, -32), image.Pt(32, -16), image.Pt(0, 0)}},
		{[3]string{"LIGS4", "HG2S4", "LWGS4"}, [3]image.Point{image.Pt(0, -32), image.Pt(-32, -16), image.Pt(0, 0)}},
		{[3]string{"LIGS2", "LWGS2", "HG2S2"}, [3]image.Point{image.Pt(-32, -16), image.Pt(32, -16), image.Pt(0, 0)}},
	}
	for i, r := range randoms {
		t.set(122+i, &Sprite{
			Kind:         SpriteComposite,
			Images:       []ImageRef{ByName("SHAP", r.names[0]), ByName("SHAP", r.names[1]), ByName("SHAP", r.names[2])},
			Offsets:      r.offsets[:],
			HeightOffset: 16,
			AllowFloat:   true,
		})
	}

	t.guardFamily("LWG", 108, 112, 116, 126, 130, 134)
	t.guardFamily("HG2", 144, 148, 152, 162, 166, 170)
	t.guardFamily("LIG", 324, 328, 332, 342, 346, 350)
	t.guardFamily("OBP", 216, 220, 224, 234, 238, 242)
	t.guardFamily("ANG", 180, 184, 188, 198, 202, 206)
	t.guardFamily("TRI", 288, 292, 296, 306, 310, 314)
	t.guardFamily("MON", 360, 364, 368, 378, 382, 386)
	t.guardFamily("ALL", 396, 400, 404, 414, 418, 422)

	// Sneaky guards play dead until approached.
	t.set(120, &Sprite{Kind: SpriteStandard, Images: shap("SNGDEAD"), AllowFloat: true})
	t.set(138, &Sprite{Kind: SpriteStandard, Images: shap("SNGDEAD"), AllowFloat: true, Hard: true})

	robot := [4]string{"ROBGRD15", "ROBGRD11", "ROBOGRD7", "ROBOGRD3"}
	t.enemyNamed(158, robot, false)
	t.enemyNamed(176, robot, true)

	craft := [4]string{"BCRAFT15", "BCRAFT11", "BCRAFT7", "BCRAFT3"}
	t.enemyNamed(408, craft, false)
	t.enemyNamed(426, craft, true)

	t.std(89, "GUNEMPF1", 0, false)
	t.std(211, "GUNEMPF1", 0, false)

	gun := [4]string{"GRISE58", "GRISE56", "GRISE54", "GRISE52"}
	t.enemyNamed(194, gun, false)
	t.enemyNamed(212, gun, true)

	// Bosses.
	t.std(98, "ETOUCH1", 0, false)
	t.std(99, "DARS8", 0, true)
	t.std(100, "HSIT8", 0, true)
	t.std(101, "THBALL5", 0, true)
	t.set(102, &Sprite{
		Kind:       SpriteComposite,
		Images:     []ImageRef{ByName("SHAP", "RSW15"), ByName("SHAP", "RBODY115"), ByName("SHAP", "RHEAD115")},
		Offsets:    []image.Point{image.Pt(0, 0), image.Pt(0, 0), image.Pt(0, 0)},
		Important:  true,
		AllowFloat: true,
	})
	t.std(103, "TOMHEAD2", 0, true)
}

func (t *SpriteTable) assignStatics() {
	// Ceiling lights clutter the view without adding information.
	for code := 23; code <= 27; code++ {
		t.set(code, &Sprite{Kind: SpriteBlank})
	}

	t.std(28, "LAMP", 0, false)

	t.key(1, 121, rgb(255, 158, 48), rgb(178, 93, 52))
	t.key(2, 34, rgb(170, 170, 170), rgb(101, 101, 101))
	t.key(3, 15, rgb(105, 97, 73), rgb(60, 56, 40))
	t.key(4, 60, rgb(125, 0, 0), rgb(77, 12, 16))

	t.std(33, "GIBS1", 0, false)
	t.std(34, "GIBS2", 0, false)
	t.std(35, "GIBS3", 0, false)
	t.std(36, "MONKMEAL", 0, false)
	t.std(37, "PPOR1", 0, true)
	t.std(38, "MONKC11", 0, false)
	t.std(39, "MONKC21", 0, true)
	t.std(40, "ONEUP3", 0, true)
	t.std(41, "THREEUP3", 0, true)
	t.std(42, "ABRAZ1", 0, false)
	t.std(43, "ABRZO20", 0, false)
	t.std(44, "FBASIN1", 0, true)
	// The empty basin looks like its filled twin but is worthless, so
	// it stays out of the important set.
	t.std(45, "EBASIN", 0, false)
	t.std(46, "BATSPR1", 0, true)
	t.std(47, "KSTATUE8", 0, false)

	// Weapons.
	weapons := []string{"TWOPIST", "MP40", "BAZOOKA", "FIREBOMB", "HEATSEEK",
		"DRUNK", "FIREWALL", "SPLITM", "KES"}
	for i, name := range weapons {
		t.std(48+i, name, 0, true)
	}

	// Healing items. Only the priest porridge is worth hunting down.
	t.std(57, "LIFE_A7", -32, false)
	t.std(58, "LIFE_B7", -32, false)
	t.std(59, "LIFE_D7", -32, false)
	t.std(60, "LIFE_C7", -32, true)

	t.std(61, "EXPLOSI", 0, false)
	t.std(62, "BBARREL", 0, false)
	t.std(63, "ABRAZ1", 0, false)
	t.std(64, "FFLAME1", 0, false)
	t.std(65, "DIPBAL11", 0, true)
	t.std(66, "DIPBAL21", 0, true)
	t.std(67, "DIPBAL31", 0, true)
	t.std(68, "TP1", 0, false)
	t.std(69, "TP2", 0, false)
	t.std(70, "TP3", 0, false)
	t.std(71, "TP4", 0, false)
	t.std(210, "SCTHEAD5", 0, false)
	t.std(228, "GARBAG1", 0, false)
	t.std(229, "GARBAG2", 0, false)
	t.std(230, "GARBAG3", 0, false)
	t.std(231, "SHITBUK", 0, false)
	t.std(232, "GRATE", 0, false)
	t.std(233, "MSHARDS", 0, false)
	t.std(246, "PEDESTA", 0, false)
	t.std(247, "ETABLE", 0, false)
	t.std(248, "STOOL", 0, false)
	t.std(249, "PSHCOL1A", 16, false)
	t.std(250, "PSHCOL1A", 16, false)
	t.std(251, "PSHCOL1A", 16, false)

	// Powerups. Power-downs (the mushroom and larva line) are traps,
	// not treasure.
	t.std(252, "GODUP2", 0, true)
	t.std(253, "DOGUP1", 0, true)
	t.std(254, "FEETUP2", 0, true)
	t.set(255, &Sprite{
		Kind:       SpriteComposite,
		Images:     []ImageRef{ByName("SHAP", "RNDOMUP4"), ByName("SHAP", "RNDOMUP2")},
		Offsets:    []image.Point{image.Pt(0, 0), image.Pt(0, 0)},
		Important:  true,
		AllowFloat: true,
	})
	t.std(260, "ELASTUP2", 0, false)
	t.std(261, "MUSHUP2", 0, false)
	t.std(262, "TOMLARV3", 0, false)
	t.set(263, &Sprite{
		Kind:       SpriteMultiColor,
		Images:     shap("COLEC5"),
		Important:  true,
		AllowFloat: true,
	})
	t.std(264, "TREE", 0, false)
	t.std(265, "PLANT", 0, false)
	t.std(266, "URN", 0, false)
	t.std(267, "ESTATUE8", 0, false)
	t.std(268, "HAY", 0, false)
	t.std(269, "IBARREL", 0, false)
	t.std(270, "PROOFUP", 0, true)
	t.std(271, "ASBESTOS", 0, true)
	t.std(272, "GASUP", 0, true)
	t.std(282, "HGRATE1", 0, false)

	// Standing poles orient themselves from the info value.
	t.set(283, &Sprite{
		Kind: SpriteIndexed,
		Indexed: map[uint16]ImageRef{
			0:    ByName("SHAP", "STNPOLE8"),
			0xE:  ByName("SHAP", "STNPOLE8"),
			0xF:  ByName("SHAP", "STNPOLE6"),
			0x10: ByName("SHAP", "STNPOLE4"),
			0x11: ByName("SHAP", "STNPOLE2"),
		},
		AllowFloat: true,
	})
}

func (t *SpriteTable) assignDynamics() {
	// Pushwall and redirector arrows. Blue arrows in the walls plane
	// mark pushwalls; red ones mark moving walls and redirectors.
	for d := rtl.Right; d <= rtl.Down; d++ {
		t.arrow(72+int(d)*2, d, false, blueGlyph)
		t.arrow(73+int(d)*2, d, true, blueGlyph)
	}
	t.set(80, &Sprite{
		Kind:       SpriteArrow,
		Background: rgb(128, 128, 128),
		Direction:  rtl.NoDir,
		GlyphColor: blueGlyph,
		AllowFloat: true,
	})
	red := rgb(255, 0, 0)
	for d := rtl.Right; d <= rtl.Down; d++ {
		t.arrow(256+int(d), d, false, red)
	}
	t.arrow(300, rtl.Right, false, red)
	t.arrow(318, rtl.Up, false, red)
	t.arrow(336, rtl.Left, false, red)
	t.arrow(354, rtl.Down, false, red)

	// Gravitational anomaly disks.
	t.std(461, "PLATFRM5", 8, false)
	t.glyphed(462, "PLATFRM5", 8, GlyphUpDown, image.Pt(34, 6), blueGlyph)
	for d := rtl.Right; d <= rtl.Down; d++ {
		t.glyphed(463+int(d), "PLATFRM5", 8, ArrowGlyph(d), image.Pt(34, 6), blueGlyph)
	}

	// Springs break with info 2 and fire late with info 3.
	t.set(193, &Sprite{
		Kind: SpriteIndexed,
		Indexed: map[uint16]ImageRef{
			0: ByName("SHAP", "SPRING1"),
			2: ByName("SHAP", "SPRING10"),
			3: ByName("SHAP", "SPRING2"),
		},
	})

	// Pushable columns, non-directional then one run per direction.
	for code := 285; code <= 287; code++ {
		t.glyphed(code, "PSHCOL1A", 16, GlyphEllipse, image.Pt(34, 6), blueGlyph)
	}
	for d := rtl.Right; d <= rtl.Down; d++ {
		for i := 0; i < 3; i++ {
			t.glyphed(303+int(d)*18+i, "PSHCOL1A", 16, ArrowGlyph(d), image.Pt(34, 6), blueGlyph)
		}
	}

	// Crushing columns.
	t.ceiling(413, "CRDOWN1", GlyphNone, image.Point{}, color.RGBA{})
	t.std(431, "CRUP3", 0, false)

	// The gas grate doubles as the overlay for gas-locked doors.
	t.set(192, &Sprite{Kind: SpriteGas, Images: shap("GRATE"), AllowFloat: true})

	// Fire jets, plain and directional.
	t.ceiling(372, "FJDOWN9", GlyphNone, image.Point{}, color.RGBA{})
	t.std(390, "FJUP9", 0, false)
	for d := rtl.Right; d <= rtl.Down; d++ {
		t.ceiling(373+int(d), "FJDOWN9", ArrowGlyph(d), image.Pt(52, 80), markColor)
		t.glyphed(391+int(d), "FJUP9", 0, ArrowGlyph(d), image.Pt(52, 80), markColor)
	}

	t.std(284, "POSTPIT", 0, false)

	// Spear traps.
	t.ceiling(412, "SPEARDN1", GlyphNone, image.Point{}, color.RGBA{})
	t.std(430, "SPEARUP1", 0, false)

	// Boulder drops and the sink marker where they stop.
	for d := rtl.Right; d <= rtl.Down; d++ {
		t.ceiling(278+int(d), "BDROP10", ArrowGlyph(d), image.Pt(36, 8), markColor)
	}
	t.std(395, "BSINK5", 0, false)

	// Blade pillars: ceiling or floor mounted, static or popping.
	t.ceiling(156, "DBLADE3", GlyphNone, image.Point{}, color.RGBA{})
	t.ceiling(157, "SPSTDN11", GlyphNone, image.Point{}, color.RGBA{})
	t.std(174, "UBLADE3", 0, false)
	t.std(175, "SPSTUP11", 0, false)
	for d := rtl.Right; d <= rtl.Down; d++ {
		t.ceiling(301+int(d)*18, "DBLADE3", ArrowGlyph(d), image.Pt(52, 80), markColor)
		t.glyphed(302+int(d)*18, "UBLADE3", 0, ArrowGlyph(d), image.Pt(52, 80), markColor)
	}

	// Fire shooters, one per firing direction.
	for d := rtl.Right; d <= rtl.Down; d++ {
		t.set(140+int(d), &Sprite{
			Kind:       SpriteFlat,
			Images:     shap("CRFIRE17"),
			Background: rgb(170, 30, 0),
			GlyphPos:   image.Pt(-32, -32),
			Rotation:   int(d) * 90,
			AllowFloat: true,
		})
	}
}
