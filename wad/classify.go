package wad

import (
	"bytes"
	"fmt"
	"image"
)

// AssetKind tags what a lump decoded into.
type AssetKind int

const (
	AssetBitmap AssetKind = iota
	AssetAudio
	AssetText
	AssetUnclassified
)

// Asset is one decoded lump. Bitmap assets carry an RGBA image; audio,
// text and unclassified assets carry their payload verbatim plus an
// inferred file extension (empty when unclassified).
type Asset struct {
	Name  string
	Kind  AssetKind
	Image *image.NRGBA
	Ext   string
	Data  []byte
}

// Known plain-text lumps.
var textLumpNames = map[string]bool{
	"SHARTITL": true,
	"SHARTIT2": true,
	"GUSMIDI":  true,
	"LICENSE":  true,
}

// Image lumps that embed their own palette.
var lbmLumpNames = map[string]bool{
	"BOOTBLOD": true,
	"BOOTNORM": true,
	"DEADBOSS": true,
	"IMFREE":   true,
}

var fontLumpNames = map[string]bool{
	"NEWFNT1":  true,
	"SMALLFON": true,
	"TINYFONT": true,
	"ITNYFONT": true,
	"IFNT":     true,
	"SIFONT":   true,
	"LIFONT":   true,
}

// Decode classifies a lump by structural signature and decodes it. An
// unrecognized payload is not an error: it comes back Unclassified with
// its bytes untouched. Decode failures are isolated to the one lump.
func (w *WAD) Decode(lumpInfo *LumpInfo) (*Asset, error) {
	lump, err := w.readLump(lumpInfo)
	if err != nil {
		return nil, err
	}
	asset := &Asset{Name: lumpInfo.Name, Data: lump}

	// Audio and text first; their magic is unambiguous.
	switch {
	case bytes.HasPrefix(lump, []byte("Creative Voice File")):
		asset.Kind, asset.Ext = AssetAudio, ".voc"
		return asset, nil
	case bytes.HasPrefix(lump, []byte("MThd")):
		asset.Kind, asset.Ext = AssetAudio, ".mid"
		return asset, nil
	case lumpInfo.Section == "AD":
		asset.Kind, asset.Ext = AssetAudio, ".imf"
		return asset, nil
	case textLumpNames[lumpInfo.Name]:
		asset.Kind, asset.Ext = AssetText, ".txt"
		return asset, nil
	}

	pic, err := w.decodeBitmap(lumpInfo, lump)
	if err != nil {
		return nil, err
	}
	if pic != nil {
		img, err := pic.Image(w.Palette)
		if err != nil {
			return nil, err
		}
		asset.Kind, asset.Ext, asset.Image = AssetBitmap, ".png", img
		return asset, nil
	}

	asset.Kind = AssetUnclassified
	return asset, nil
}

// decodeBitmap tries the image layouts a lump's section, name and shape
// admit. A nil picture with nil error means the lump is not an image.
func (w *WAD) decodeBitmap(lumpInfo *LumpInfo, lump []byte) (*Picture, error) {
	switch {
	case IsWall(lumpInfo):
		return decodeColumnFirst(lumpInfo.Name, WallWidth, WallHeight, lump, -1)
	case lumpInfo.Section == "SKY":
		return decodeColumnFirst(lumpInfo.Name, SkyWidth, SkyHeight, lump, -1)
	case lumpInfo.Section == "UPDN":
		return decodeFloorCeil(lumpInfo, lump)
	case lbmLumpNames[lumpInfo.Name]:
		return decodeLBM(lumpInfo, lump)
	case fontLumpNames[lumpInfo.Name]:
		font, err := decodeFont(lumpInfo, lump)
		if err != nil {
			return nil, err
		}
		return fontSheet(font), nil
	}

	// Patch first, then the pic forms; both validate their headers and
	// sizes strictly enough that a miss just falls through.
	if pic, err := decodePatch(lumpInfo, lump); err == nil {
		return pic, nil
	}
	if pic, err := decodePic(lumpInfo, lump); err == nil {
		return pic, nil
	}
	return nil, nil
}

// GetPicture decodes any bitmap lump by its structural signature,
// caching the result. Lumps with no recognizable image form are a
// DecodeError.
func (w *WAD) GetPicture(lumpInfo *LumpInfo) (*Picture, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pictures == nil {
		w.pictures = make(map[string]*Picture)
	} else if p, ok := w.pictures[lumpInfo.Name]; ok {
		return p, nil
	}
	lump, err := w.readLump(lumpInfo)
	if err != nil {
		return nil, err
	}
	pic, err := w.decodeBitmap(lumpInfo, lump)
	if err != nil {
		return nil, err
	}
	if pic == nil {
		return nil, fmt.Errorf("%w: %v: no recognizable image form", ErrDecode, lumpInfo.Name)
	}
	w.pictures[lumpInfo.Name] = pic
	return pic, nil
}

// fontSheet lays a font's glyphs out side by side for extraction.
func fontSheet(font *Font) *Picture {
	width := 0
	for _, glyph := range font.Glyphs {
		if glyph != nil {
			width += glyph.Width + 1
		}
	}
	if width == 0 {
		return newPicture(font.Name, 1, font.Height)
	}
	sheet := newPicture(font.Name, width, font.Height)
	x := 0
	for _, glyph := range font.Glyphs {
		if glyph == nil {
			continue
		}
		sheet.Palette = glyph.Palette
		for gy := 0; gy < glyph.Height; gy++ {
			for gx := 0; gx < glyph.Width; gx++ {
				sheet.Pixels[gy*width+x+gx] = glyph.Pixels[gy*glyph.Width+gx]
				sheet.Alpha[gy*width+x+gx] = glyph.Alpha[gy*glyph.Width+gx]
			}
		}
		x += glyph.Width + 1
	}
	return sheet
}
