package tiledb

import "fmt"

// NumWallCodes is the size of the wall plane code space.
const NumWallCodes = 256

// Fence and exit codes get special annotation treatment elsewhere, so
// they are named here rather than buried in the table.
const (
	FenceCode       = 179
	FenceViewHeight = 48
)

// WallTable maps every wall plane code to its tile descriptor for one
// floor tile set.
type WallTable struct {
	Tiles [NumWallCodes]*Tile

	// Spacer is the virtual partial-height wall raised by special
	// height info values on open tiles.
	Spacer *Tile

	// Floor is the level's ground texture, drawn under floor cells
	// and thin walls alike.
	Floor ImageRef
}

// Get returns the descriptor for a wall code. Codes outside the table
// come back as empty tiles.
func (t *WallTable) Get(code uint16) *Tile {
	if int(code) >= len(t.Tiles) {
		return t.Tiles[0]
	}
	return t.Tiles[code]
}

func solid(faces ...ImageRef) *Tile {
	return &Tile{Kind: TileWall, Faces: faces, Opaque: true, ViewHeightOverride: -1}
}

func door(face ImageRef, above ImageRef, side ImageRef) *Tile {
	return &Tile{
		Kind:               TileThin,
		Faces:              []ImageRef{face, above},
		Opaque:             true,
		Sides:              []ImageRef{side},
		ViewHeightOverride: -1,
	}
}

func window(side ImageRef, faces ...ImageRef) *Tile {
	t := &Tile{Kind: TileThin, Faces: faces, ViewHeightOverride: -1}
	if !side.IsZero() {
		t.Sides = []ImageRef{side}
	}
	return t
}

// Walls builds the wall code table for the given floor tile set. The
// texture layout mirrors the game's own lookup order, so runs of codes
// index directly into the WALL, ELEV and EXIT sections.
func Walls(floorSet int) *WallTable {
	floor := ByName("UPDN", fmt.Sprintf("FLRCL%v", floorSet))
	table := &WallTable{Floor: floor}

	table.Tiles[0] = &Tile{Kind: TileEmpty, ViewHeightOverride: -1}
	for code := 1; code < NumWallCodes; code++ {
		table.Tiles[code] = &Tile{Kind: TileWall, Debug: code, ViewHeightOverride: -1}
	}
	for code := 108; code <= 152; code++ {
		table.Tiles[code] = &Tile{Kind: TileFloor, Faces: []ImageRef{floor}, ViewHeightOverride: -1}
	}

	for code := 1; code < 90; code++ {
		switch {
		case code <= 32:
			table.Tiles[code] = solid(ByIndex("WALL", code-1))
		case code >= 36 && code <= 45:
			table.Tiles[code] = solid(ByIndex("WALL", code-4))
		case code == 46:
			table.Tiles[code] = solid(ByIndex("WALL", 73))
		case code == 47 || code == 48:
			table.Tiles[code] = solid(ByIndex("EXIT", code-47), ByIndex("WALL", 21))
		case code >= 49 && code <= 71:
			table.Tiles[code] = solid(ByIndex("WALL", code-9))
		case code >= 72 && code <= 79:
			table.Tiles[code] = solid(ByIndex("ELEV", code-72))
		case code >= 80:
			table.Tiles[code] = solid(ByIndex("WALL", code-17))
		}
	}

	// Walls with a distinct texture band above ground level.
	table.Tiles[11] = solid(ByIndex("WALL", 10), ByIndex("WALL", 21))
	for i := 0; i < 4; i++ {
		table.Tiles[76+i] = solid(ByIndex("ELEV", 4+i), ByIndex("WALL", 21))
	}

	// The one real variable wall, and the virtual spacer raised by
	// special height info values. Segment order: base, short base,
	// middle, middle end, top, ceiling stub.
	table.Tiles[21] = &Tile{
		Kind:               TileVariable,
		Faces:              []ImageRef{ByIndex("HMSK", 14)},
		Sides:              []ImageRef{ByIndex("WALL", 20)},
		ViewHeightOverride: -1,
	}
	table.Spacer = &Tile{
		Kind: TileVariable,
		Faces: []ImageRef{
			ByIndex("HMSK", 4),
			ByIndex("HMSK", 8),
			ByIndex("HMSK", 12),
			ByIndex("HMSK", 7),
			ByIndex("HMSK", 5),
			ByIndex("HMSK", 10),
		},
		Sides:              []ImageRef{ByIndex("HMSK", 7)},
		ViewHeightOverride: -1,
	}

	// Doors.
	abvw0 := ByIndex("ABVW", 0)
	side8 := ByName("SIDE", "SIDE8")
	for _, code := range []int{90, 98} {
		table.Tiles[code] = door(ByName("DOOR", "RAMDOOR1"), abvw0, side8)
	}
	for _, code := range []int{91, 99} {
		table.Tiles[code] = door(ByName("DOOR", "DOOR2"), abvw0, side8)
	}
	for _, code := range []int{92, 93, 103} {
		table.Tiles[code] = door(ByName("DOOR", "TRIDOOR1"), abvw0, side8)
	}
	for _, code := range []int{100, 101, 104} {
		table.Tiles[code] = door(ByName("DOOR", "SDOOR4"), abvw0, side8)
	}
	table.Tiles[102] = door(ByName("DOOR", "EDOOR"), abvw0, side8)

	// Key-locked doors carry the lock texture on their sides.
	for i, code := range []int{94, 95, 96, 97} {
		table.Tiles[code] = door(ByName("DOOR", "SDOOR4"), abvw0,
			ByName("SIDE", fmt.Sprintf("LOCK%v", i+1)))
	}

	// Multi-part doors.
	for i, name := range []string{"SNDOOR", "SNADOOR", "SNKDOOR"} {
		table.Tiles[33+i] = door(ByName("DOOR", name), ByIndex("ABVW", 1), ByName("SIDE", "SIDE16"))
	}
	for i, name := range []string{"TNDOOR", "TNADOOR", "TNKDOOR"} {
		table.Tiles[154+i] = door(ByName("DOOR", name), ByIndex("ABVW", 2), ByName("SIDE", "SIDE17"))
	}

	// Windows.
	side21 := ByName("SIDE", "SIDE21")
	for i, name := range []string{"MULTI1", "MULTI2", "MULTI3"} {
		table.Tiles[158+i] = window(side21, ByName("MASK", name),
			ByName("ABVM", fmt.Sprintf("ABOVEM5%c", 'A'+i)), ByName("ABVM", "ABOVEM5"))
	}
	masked := []string{"MASKED1", "MASKED1A", "MASKED2", "MASKED2A", "MASKED3", "MASKED3A", "MASKED4"}
	for i, name := range masked {
		table.Tiles[162+i] = window(side21, ByName("MASK", name),
			ByName("ABVM", "ABOVEM4A"), ByName("ABVM", "ABOVEM4"))
	}
	table.Tiles[170] = window(side21, ByName("MASK", "DOGMASK"),
		ByName("ABVM", "ABOVEM9"), ByName("ABVM", "ABOVEM4"))
	table.Tiles[171] = window(side21, ByName("MASK", "PEEPMASK"),
		ByName("ABVM", "ABOVEM4A"), ByName("ABVM", "ABOVEM4"))

	// Fences only cover the lower part of the cell and never obscure
	// what stands behind them.
	table.Tiles[FenceCode] = window(ImageRef{}, ByName("MASK", "RAILING"), ImageRef{})
	table.Tiles[FenceCode].ViewHeightOverride = FenceViewHeight

	// Wall switches.
	for _, code := range []int{157, 175} {
		table.Tiles[code] = window(ImageRef{},
			ByName("HMSK", "HSWITCH1"), ByName("HMSK", "HSWITCH2"), ByName("HMSK", "HSWITCH3"))
	}

	// Exit archways.
	for i, code := range []int{172, 173, 174} {
		table.Tiles[code] = window(side21, ByIndex("EXIT", 2+i),
			ByName("ABVM", "ABOVEM4A"), ByName("ABVM", "ABOVEM4"))
	}

	// Animated walls, pinned to their first frame.
	animated := map[int]string{
		44: "FPLACE1", 45: "ANIMFAC1",
		106: "ANIMY1", 107: "ANIMR1",
		224: "ANIMONE1", 225: "ANIMTWO1", 226: "ANIMTHR1", 227: "ANIMFOR1",
		228: "ANIMBW1", 229: "ANIMYOU1", 230: "ANIMBW1",
		231: "ANIMBP1", 232: "ANIMBP1", 233: "ANIMFW1",
		242: "ANIMLAT1", 243: "ANIMST1", 244: "ANIMRP1",
	}
	for code, name := range animated {
		table.Tiles[code] = solid(ByName("ANIM", name))
	}

	return table
}
