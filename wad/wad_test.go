package wad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// testLump is one lump for the synthetic archive builder. A nil payload
// with size zero becomes a section marker.
type testLump struct {
	name string
	data []byte
}

// buildArchive assembles a parseable archive from lumps in order.
func buildArchive(t *testing.T, lumps []testLump) []byte {
	t.Helper()
	var payload bytes.Buffer
	type entry struct {
		pos, size int32
		name      [8]byte
	}
	entries := make([]entry, len(lumps))
	base := int32(12)
	for i, lump := range lumps {
		e := &entries[i]
		copy(e.name[:], lump.name)
		e.pos = base + int32(payload.Len())
		e.size = int32(len(lump.data))
		payload.Write(lump.data)
	}

	var buf bytes.Buffer
	buf.WriteString("IWAD")
	check := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	check(binary.Write(&buf, binary.LittleEndian, int32(len(lumps))))
	check(binary.Write(&buf, binary.LittleEndian, base+int32(payload.Len())))
	buf.Write(payload.Bytes())
	for _, e := range entries {
		check(binary.Write(&buf, binary.LittleEndian, e.pos))
		check(binary.Write(&buf, binary.LittleEndian, e.size))
		buf.Write(e.name[:])
	}
	return buf.Bytes()
}

// grayPalette ramps every index to its own gray level.
func grayPalette() []byte {
	pal := make([]byte, PaletteBytes)
	for i := 0; i < 256; i++ {
		pal[i*3], pal[i*3+1], pal[i*3+2] = byte(i), byte(i), byte(i)
	}
	return pal
}

// wallLump builds raw column-first wall data where every pixel holds
// its column number.
func wallLump() []byte {
	data := make([]byte, wallSize)
	for x := 0; x < WallWidth; x++ {
		for y := 0; y < WallHeight; y++ {
			data[x*WallHeight+y] = byte(x)
		}
	}
	return data
}

func testArchive(t *testing.T) *WAD {
	t.Helper()
	data := buildArchive(t, []testLump{
		{"PAL", grayPalette()},
		{"WALLSTRT", nil},
		{"WALL1", wallLump()},
		{"WALL2", wallLump()},
		{"WALLSTOP", nil},
		{"SONG1", []byte("Creative Voice File\x1a")},
		{"SONG2", []byte("MThd junk")},
		{"SHARTITL", []byte("shareware text")},
		{"MYSTERY", []byte{1, 2, 3}},
	})
	w, err := New(data)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestNewBadMagic(t *testing.T) {
	data := buildArchive(t, []testLump{{"PAL", grayPalette()}})
	copy(data, "OOPS")
	if _, err := New(data); !errors.Is(err, ErrFormat) {
		t.Fatalf("got %v, want ErrFormat", err)
	}
}

func TestNewTruncatedDirectory(t *testing.T) {
	data := buildArchive(t, []testLump{{"PAL", grayPalette()}})
	if _, err := New(data[:len(data)-4]); !errors.Is(err, ErrFormat) {
		t.Fatalf("got %v, want ErrFormat", err)
	}
}

func TestSections(t *testing.T) {
	w := testArchive(t)
	walls := w.Section("WALL")
	if len(walls) != 2 || walls[0].Name != "WALL1" || walls[1].Name != "WALL2" {
		t.Fatalf("WALL section = %v", walls)
	}
	general := w.Section(GeneralSection)
	names := map[string]bool{}
	for _, lumpInfo := range general {
		names[lumpInfo.Name] = true
	}
	for _, want := range []string{"SONG1", "SONG2", "SHARTITL", "MYSTERY"} {
		if !names[want] {
			t.Errorf("general section missing %v", want)
		}
	}
	if names["PAL"] {
		t.Error("PAL should stay out of the sections")
	}
}

func TestLumpLookup(t *testing.T) {
	w := testArchive(t)
	lumpInfo, ok := w.Lump("wall1")
	if !ok || lumpInfo.Name != "WALL1" || lumpInfo.Section != "WALL" {
		t.Fatalf("Lump(wall1) = %+v, %v", lumpInfo, ok)
	}
	if _, ok := w.Lump("ABSENT"); ok {
		t.Fatal("found a lump that does not exist")
	}
}

func TestPalette(t *testing.T) {
	w := testArchive(t)
	if len(w.Palette) != 256 {
		t.Fatalf("palette has %v entries, want 256", len(w.Palette))
	}
	if got := w.Palette[7]; got != (RGB{7, 7, 7}) {
		t.Fatalf("palette[7] = %v", got)
	}
}

func TestGetWall(t *testing.T) {
	w := testArchive(t)
	pic, err := w.GetWall("WALL1")
	if err != nil {
		t.Fatal(err)
	}
	if pic.Width != WallWidth || pic.Height != WallHeight {
		t.Fatalf("wall size %vx%v", pic.Width, pic.Height)
	}
	// Column-first storage transposed to row-major.
	if pic.Pixels[5] != 5 || pic.Pixels[WallWidth+5] != 5 {
		t.Fatalf("pixels = %v, %v, want column number 5", pic.Pixels[5], pic.Pixels[WallWidth+5])
	}
	if pic.Alpha[0] != 255 {
		t.Fatal("wall pixels must be opaque")
	}
}

func TestPictureImage(t *testing.T) {
	w := testArchive(t)
	pic, err := w.GetWall("WALL1")
	if err != nil {
		t.Fatal(err)
	}
	img, err := pic.Image(w.Palette)
	if err != nil {
		t.Fatal(err)
	}
	c := img.NRGBAAt(9, 0)
	if c.R != 9 || c.G != 9 || c.B != 9 || c.A != 255 {
		t.Fatalf("pixel (9,0) = %v", c)
	}
}

func TestPictureImageBadIndex(t *testing.T) {
	pic := newPicture("X", 1, 1)
	pic.Pixels[0] = 5
	if _, err := pic.Image(Palette{{0, 0, 0}}); !errors.Is(err, ErrDecode) {
		t.Fatalf("got %v, want ErrDecode", err)
	}
}

func TestDecodeClassification(t *testing.T) {
	w := testArchive(t)
	for _, tc := range []struct {
		lump string
		kind AssetKind
		ext  string
	}{
		{"WALL1", AssetBitmap, ".png"},
		{"SONG1", AssetAudio, ".voc"},
		{"SONG2", AssetAudio, ".mid"},
		{"SHARTITL", AssetText, ".txt"},
		{"MYSTERY", AssetUnclassified, ""},
	} {
		t.Run(tc.lump, func(t *testing.T) {
			lumpInfo, ok := w.Lump(tc.lump)
			if !ok {
				t.Fatalf("%v missing", tc.lump)
			}
			asset, err := w.Decode(lumpInfo)
			if err != nil {
				t.Fatal(err)
			}
			if asset.Kind != tc.kind || asset.Ext != tc.ext {
				t.Fatalf("got kind %v ext %q, want %v %q", asset.Kind, asset.Ext, tc.kind, tc.ext)
			}
			if tc.kind == AssetBitmap && asset.Image == nil {
				t.Fatal("bitmap asset without image")
			}
		})
	}
}

func TestDecodePic(t *testing.T) {
	// 8x2 small pic: width byte is stored divided by four, four
	// interleaved phases follow, then padding.
	lump := []byte{2, 2}
	pixels := make([]byte, 16)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	// Interleave: pixel at x,y lands in phase x%4.
	data := make([]byte, 16)
	phaseSize := 4
	for pos := 0; pos < phaseSize; pos++ {
		for phase := 0; phase < 4; phase++ {
			data[phaseSize*phase+pos] = pixels[pos*4+phase]
		}
	}
	lump = append(lump, data...)
	lump = append(lump, 0, 0, 0, 0)

	pic, err := decodePic(&LumpInfo{Name: "TESTPIC"}, lump)
	if err != nil {
		t.Fatal(err)
	}
	if pic.Width != 8 || pic.Height != 2 {
		t.Fatalf("pic size %vx%v, want 8x2", pic.Width, pic.Height)
	}
	for i, got := range pic.Pixels {
		if got != byte(i) {
			t.Fatalf("pixel %v = %v", i, got)
		}
	}
}

func TestDecodePatch(t *testing.T) {
	// A 2x4 patch with one post per column.
	var buf bytes.Buffer
	hdr := binPatchHeader{OrigSize: 4, Width: 2, Height: 4}
	if err := binary.Write(&buf, binary.LittleEndian, hdr); err != nil {
		t.Fatal(err)
	}
	// Column offsets point past the 10-byte header plus themselves.
	if err := binary.Write(&buf, binary.LittleEndian, [2]uint16{14, 20}); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{1, 2, 10, 11, 255, 0}) // column 0: rows 1-2
	buf.Write([]byte{0, 1, 20, 255, 0})     // column 1: row 0

	pic, err := decodePatch(&LumpInfo{Name: "TESTPAT"}, buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if pic.Pixels[1*pic.Width+0] != 10 || pic.Pixels[2*pic.Width+0] != 11 {
		t.Fatalf("column 0 post misplaced: %v", pic.Pixels)
	}
	if pic.Pixels[0*pic.Width+1] != 20 {
		t.Fatalf("column 1 post misplaced: %v", pic.Pixels)
	}
	if pic.Alpha[0] != 0 {
		t.Fatal("uncovered pixel must stay transparent")
	}
	if pic.Alpha[1*pic.Width+0] != 255 {
		t.Fatal("post pixel must be opaque")
	}
}

func TestDecodeFont(t *testing.T) {
	var buf bytes.Buffer
	var header binFontHeader
	header.Height = 4
	header.Widths['A'] = 2
	// Glyph data starts right after the header.
	headerSize := binary.Size(header)
	header.CharOffs['A'] = int16(headerSize)
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0, 1, 0, 2, 0, 3, 0, 4})

	font, err := decodeFont(&LumpInfo{Name: "TESTFONT"}, buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if font.Height != 4 {
		t.Fatalf("font height %v, want 4", font.Height)
	}
	glyph := font.Glyphs['A']
	if glyph == nil {
		t.Fatal("glyph A missing")
	}
	if glyph.Width != 2 || glyph.Height != 4 {
		t.Fatalf("glyph size %vx%v, want 2x4", glyph.Width, glyph.Height)
	}
	// Glyph data is column-first; index 0 is transparent, everything
	// else opaque.
	if glyph.Alpha[0] != 0 {
		t.Fatal("index 0 must be transparent")
	}
	if got := glyph.Pixels[1*glyph.Width+0]; got != 1 {
		t.Fatalf("glyph pixel (0,1) = %v, want 1", got)
	}
	if glyph.Alpha[1*glyph.Width+0] != 255 {
		t.Fatal("drawn glyph pixel must be opaque")
	}
	if font.Glyphs['B'] != nil {
		t.Fatal("zero width glyph should be absent")
	}
}

func TestGetPictureCache(t *testing.T) {
	w := testArchive(t)
	lumpInfo, _ := w.Lump("WALL1")
	first, err := w.GetPicture(lumpInfo)
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.GetPicture(lumpInfo)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("second decode missed the cache")
	}
}
