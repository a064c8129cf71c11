package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Font is a decoded font lump: one glyph picture per character code.
// Glyph entries are nil for characters the font does not carry.
type Font struct {
	Name   string
	Height int
	Glyphs [256]*Picture
}

// Colored fonts carry a leading color word and their own palette.
var colorFontNames = map[string]bool{
	"IFNT":     true,
	"ITNYFONT": true,
	"SIFONT":   true,
	"LIFONT":   true,
}

type binFontHeader struct {
	Height   int16
	Widths   [256]int8
	CharOffs [256]int16
}

// GetFont reads and decodes a font lump. Glyph pixel index 0 is
// transparent.
func (w *WAD) GetFont(name string) (*Font, error) {
	name = strings.ToUpper(name)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fonts == nil {
		w.fonts = make(map[string]*Font)
	} else if f, ok := w.fonts[name]; ok {
		return f, nil
	}
	lumpInfo, ok := w.Lump(name)
	if !ok {
		return nil, fmt.Errorf("%v lump not found", name)
	}
	lump, err := w.readLump(lumpInfo)
	if err != nil {
		return nil, err
	}
	font, err := decodeFont(lumpInfo, lump)
	if err != nil {
		return nil, err
	}
	w.fonts[name] = font
	return font, nil
}

func decodeFont(lumpInfo *LumpInfo, lump []byte) (*Font, error) {
	reader := bytes.NewReader(lump)
	colored := colorFontNames[lumpInfo.Name]
	if colored {
		var color int16
		if err := binary.Read(reader, binary.LittleEndian, &color); err != nil {
			return nil, fmt.Errorf("%w: %v: truncated font header", ErrDecode, lumpInfo.Name)
		}
	}
	var header binFontHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v: truncated font header", ErrDecode, lumpInfo.Name)
	}

	var embedded Palette
	if colored {
		raw := make([]byte, PaletteBytes)
		if _, err := reader.Read(raw); err != nil {
			return nil, fmt.Errorf("%w: %v: truncated font palette", ErrDecode, lumpInfo.Name)
		}
		pal, err := NewPalette(raw)
		if err != nil {
			return nil, err
		}
		embedded = pal
	}

	font := &Font{Name: lumpInfo.Name, Height: int(header.Height)}
	if font.Height <= 0 {
		return nil, fmt.Errorf("%w: %v: font height %v", ErrDecode, lumpInfo.Name, font.Height)
	}
	for i := 0; i < 256; i++ {
		width := int(header.Widths[i])
		if width <= 0 {
			continue
		}
		offset := int(header.CharOffs[i])
		if offset < 0 || offset+width*font.Height > len(lump) {
			return nil, fmt.Errorf("%w: %v: glyph %v at %v overruns lump", ErrDecode, lumpInfo.Name, i, offset)
		}
		glyph, err := decodeColumnFirst(fmt.Sprintf("%v.%v", lumpInfo.Name, i),
			width, font.Height, lump[offset:], 0)
		if err != nil {
			return nil, err
		}
		glyph.Palette = embedded
		font.Glyphs[i] = glyph
	}
	return font, nil
}
