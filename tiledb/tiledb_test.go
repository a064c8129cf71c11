package tiledb

import (
	"fmt"
	"testing"

	"github.com/stuarthighley/rott/rtl"
)

func TestWallTableLayout(t *testing.T) {
	table := Walls(1)

	if table.Get(0).Kind != TileEmpty {
		t.Error("code 0 must be empty")
	}
	if got := table.Get(1); got.Kind != TileWall || got.Faces[0] != ByIndex("WALL", 0) {
		t.Errorf("code 1 = %+v", got)
	}
	// Out-of-range codes resolve like code 0.
	if table.Get(60000) != table.Get(0) {
		t.Error("out-of-range code must resolve to the empty tile")
	}
	for _, code := range []uint16{108, 130, 152} {
		if got := table.Get(code); got.Kind != TileFloor {
			t.Errorf("code %v = kind %v, want floor", code, got.Kind)
		}
	}
	if table.Floor != ByName("UPDN", "FLRCL1") {
		t.Errorf("floor ref = %+v", table.Floor)
	}
}

func TestWallTableFloorSet(t *testing.T) {
	for _, set := range []int{1, 5} {
		want := ByName("UPDN", fmt.Sprintf("FLRCL%v", set))
		if got := Walls(set).Floor; got != want {
			t.Errorf("floor set %v ref = %+v, want %+v", set, got, want)
		}
	}
}

func TestLockedDoorSides(t *testing.T) {
	table := Walls(1)
	for i, code := range []uint16{94, 95, 96, 97} {
		tile := table.Get(code)
		if tile.Kind != TileThin || !tile.Opaque {
			t.Fatalf("code %v = %+v, want an opaque door", code, tile)
		}
		want := ByName("SIDE", fmt.Sprintf("LOCK%v", i+1))
		if len(tile.Sides) != 1 || tile.Sides[0] != want {
			t.Errorf("code %v sides = %v, want %v", code, tile.Sides, want)
		}
	}
}

func TestFence(t *testing.T) {
	tile := Walls(1).Get(FenceCode)
	if tile.Kind != TileThin || tile.Opaque {
		t.Fatalf("fence = %+v", tile)
	}
	if got := tile.ViewHeight(0, 256); got != FenceViewHeight {
		t.Errorf("fence view height = %v, want %v", got, FenceViewHeight)
	}
}

func TestIsSolidAndThin(t *testing.T) {
	table := Walls(1)
	wall := table.Get(1)
	variable := table.Get(21)
	floor := table.Get(108)

	if !wall.IsSolid(0) || !wall.IsSolid(5) {
		t.Error("solid walls are solid for any info")
	}
	if wall.IsThin(5) {
		t.Error("solid walls never thin out")
	}
	if !variable.IsSolid(0) || variable.IsSolid(1) {
		t.Error("variable tiles are solid only when closed")
	}
	if !variable.IsThin(1) || variable.IsThin(0) {
		t.Error("variable tiles thin out on special heights")
	}
	if floor.IsSolid(0) {
		t.Error("floor tiles are never solid")
	}
	if !floor.IsThin(4) || floor.IsThin(0) {
		t.Error("open tiles raise a thin spacer only on special heights")
	}
}

func TestSpriteHeight(t *testing.T) {
	table := Walls(1)
	floor := table.Get(108)
	wall := table.Get(1)
	const height = 256

	for _, tc := range []struct {
		name       string
		tile       *Tile
		info       uint16
		allowFloat bool
		want       int
	}{
		{"ground", floor, 0, true, 0},
		{"top of spacer", floor, 1, true, height - 64},
		{"one band up", floor, 5, true, 64},
		{"mid spacer", floor, 4, true, 0},
		{"on a wall", wall, 0, true, height},
		{"floating", floor, 0xB010, true, 64},
		{"floating denied", floor, 0xB010, false, 0},
		{"high float window", floor, 0xB100, true, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tile.SpriteHeight(tc.info, height, tc.allowFloat); got != tc.want {
				t.Fatalf("SpriteHeight = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestViewHeight(t *testing.T) {
	table := Walls(1)
	floor := table.Get(108)
	wall := table.Get(1)
	const height = 256

	if got := wall.ViewHeight(0, height); got != height {
		t.Errorf("wall view height = %v, want %v", got, height)
	}
	if got := floor.ViewHeight(0, height); got != 0 {
		t.Errorf("open view height = %v, want 0", got)
	}
	if got := floor.ViewHeight(5, height); got != 64 {
		t.Errorf("low spacer view height = %v, want 64", got)
	}
	if got := floor.ViewHeight(1, height); got != height-64 {
		t.Errorf("tall spacer view height = %v, want %v", got, height-64)
	}
}

func TestSpriteTableGet(t *testing.T) {
	table := Sprites()

	if s, known := table.Get(0); s != nil || !known {
		t.Fatal("code 0 must be a known nil")
	}
	s, known := table.Get(28)
	if !known || s.Kind != SpriteStandard || s.Images[0] != ByName("SHAP", "LAMP") {
		t.Fatalf("code 28 = %+v, known %v", s, known)
	}
	s, known = table.Get(9999)
	if known || s.Kind != SpritePlaceholder || s.Debug != 9999 {
		t.Fatalf("code 9999 = %+v, known %v", s, known)
	}
}

func TestImportantItems(t *testing.T) {
	table := Sprites()
	for _, tc := range []struct {
		code uint16
		want bool
	}{
		{19, true},   // player start
		{37, true},   // priest porridge
		{44, true},   // filled basin
		{45, false},  // empty basin
		{48, true},   // weapon
		{57, false},  // small heal
		{252, true},  // god mode
		{261, false}, // mushroom trap
	} {
		s, _ := table.Get(tc.code)
		if s.Important != tc.want {
			t.Errorf("code %v important = %v, want %v", tc.code, s.Important, tc.want)
		}
	}
}

func TestKeys(t *testing.T) {
	table := Sprites()
	for number := 1; number <= 4; number++ {
		s, known := table.Get(uint16(28 + number))
		if !known || s.Kind != SpriteKey {
			t.Fatalf("key %v = %+v", number, s)
		}
		if s.Badge != ByName("General", fmt.Sprintf("KEY%v", number)) {
			t.Errorf("key %v badge = %+v", number, s.Badge)
		}
		if s.ColorIndex == 0 {
			t.Errorf("key %v has no recolor index", number)
		}
	}
}

func TestArrowRoles(t *testing.T) {
	table := Sprites()
	arrow, _ := table.Get(72)
	if arrow.Kind != SpriteArrow {
		t.Fatalf("code 72 = %+v, want an arrow", arrow)
	}
	if arrow.Role(WallsPlane) != RolePushwall {
		t.Error("arrows in the walls plane mark pushwalls")
	}
	if arrow.Role(SpritesPlane) != RoleRedirector || arrow.Role(InfoPlane) != RoleRedirector {
		t.Error("arrows in other planes redirect")
	}
	lamp, _ := table.Get(28)
	if lamp.Role(WallsPlane) != RoleNone {
		t.Error("non-arrows have no role")
	}
}

func TestArrowDirections(t *testing.T) {
	table := Sprites()
	for d := rtl.Right; d <= rtl.Down; d++ {
		s, _ := table.Get(uint16(72 + int(d)*2))
		if s.Direction != d || s.Diagonal {
			t.Errorf("code %v = direction %v diagonal %v", 72+int(d)*2, s.Direction, s.Diagonal)
		}
		s, _ = table.Get(uint16(73 + int(d)*2))
		if s.Direction != d || !s.Diagonal {
			t.Errorf("code %v should be the diagonal %v arrow", 73+int(d)*2, d)
		}
	}
	s, _ := table.Get(80)
	if s.Direction != rtl.NoDir {
		t.Error("code 80 is the directionless arrow")
	}
}

func TestArrowGlyph(t *testing.T) {
	if ArrowGlyph(rtl.Right) != GlyphRight || ArrowGlyph(rtl.Down) != GlyphDown {
		t.Fatal("glyphs do not track the direction enum")
	}
}

func TestElevatorText(t *testing.T) {
	table := Sprites()
	for i := 0; i < 8; i++ {
		s, _ := table.Get(uint16(90 + i))
		want := fmt.Sprintf("Elevator %v", i+1)
		if s.Kind != SpriteText || s.Text != want {
			t.Errorf("code %v = %+v, want text %q", 90+i, s, want)
		}
	}
}

func TestEnemyMarks(t *testing.T) {
	table := Sprites()
	easy, _ := table.Get(108)
	if easy.Mark() != "" {
		t.Errorf("easy guard mark = %q", easy.Mark())
	}
	hard, _ := table.Get(126)
	if hard.Mark() != "^" {
		t.Errorf("hard guard mark = %q", hard.Mark())
	}
	hardAmbush, _ := table.Get(134)
	if hardAmbush.Mark() != "^!" {
		t.Errorf("hard ambush mark = %q", hardAmbush.Mark())
	}
	patrol, _ := table.Get(112)
	if !patrol.Patrolling || patrol.Images[0] != ByName("SHAP", "LWGW28") {
		t.Errorf("patrolling guard = %+v", patrol)
	}
}

func TestIndexedSpring(t *testing.T) {
	table := Sprites()
	spring, _ := table.Get(193)
	if spring.Kind != SpriteIndexed {
		t.Fatalf("spring = %+v", spring)
	}
	if spring.Indexed[0] != ByName("SHAP", "SPRING1") || spring.Indexed[2] != ByName("SHAP", "SPRING10") {
		t.Errorf("spring images = %v", spring.Indexed)
	}
}
