package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"strings"
)

// Picture is a decoded palette-indexed image. Pixels holds row-major
// palette indices; Alpha holds the matching coverage byte per pixel
// (0 transparent, 128 translucent, 255 opaque).
type Picture struct {
	Name                  string
	Width, Height         int
	LeftOffset, TopOffset int
	Pixels                []byte
	Alpha                 []byte
	// Palette overrides the archive palette when the lump embeds its
	// own colors (LBM images, colored fonts).
	Palette Palette
}

func newPicture(name string, width, height int) *Picture {
	return &Picture{
		Name:   name,
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height),
		Alpha:  make([]byte, width*height),
	}
}

// Image maps the picture through a palette to an RGBA grid. The
// picture's embedded palette, when present, wins over the argument.
func (p *Picture) Image(pal Palette) (*image.NRGBA, error) {
	if p.Palette != nil {
		pal = p.Palette
	}
	if pal == nil {
		return nil, fmt.Errorf("%w: %v: no palette", ErrDecode, p.Name)
	}
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for i, index := range p.Pixels {
		if int(index) >= len(pal) {
			return nil, fmt.Errorf("%w: %v: pixel index %v outside palette of %v entries",
				ErrDecode, p.Name, index, len(pal))
		}
		rgb := pal[index]
		img.Pix[i*4+0] = rgb.Red
		img.Pix[i*4+1] = rgb.Green
		img.Pix[i*4+2] = rgb.Blue
		img.Pix[i*4+3] = p.Alpha[i]
	}
	return img, nil
}

// Wall lumps are exactly 64x64 indexed pixels. One door lump shares the
// size but is a patch, so walls are recognized by size and name.
const wallSize, WallWidth, WallHeight = 4096, 64, 64

// IsWall tests whether a lump holds raw wall texture data.
func IsWall(lumpInfo *LumpInfo) bool {
	return lumpInfo.Size == wallSize && lumpInfo.Name != "SDOOR4A"
}

// GetWall reads and decodes a wall texture lump. Wall data is stored
// column-first.
func (w *WAD) GetWall(name string) (*Picture, error) {
	return w.cachedPicture(name, func(lumpInfo *LumpInfo, lump []byte) (*Picture, error) {
		if !IsWall(lumpInfo) {
			return nil, fmt.Errorf("%w: %v is not a wall lump", ErrDecode, lumpInfo.Name)
		}
		return decodeColumnFirst(lumpInfo.Name, WallWidth, WallHeight, lump, -1)
	})
}

type binLpicHeader struct {
	Width, Height int16
	OrgX, OrgY    int16
}

// GetFloorCeil reads and decodes a floor or ceiling tile lump.
func (w *WAD) GetFloorCeil(name string) (*Picture, error) {
	return w.cachedPicture(name, decodeFloorCeil)
}

func decodeFloorCeil(lumpInfo *LumpInfo, lump []byte) (*Picture, error) {
	reader := bytes.NewReader(lump)
	var header binLpicHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v: truncated lpic header", ErrDecode, lumpInfo.Name)
	}
	width, height := int(header.Width), int(header.Height)
	if width <= 0 || height <= 0 || len(lump) < 8+width*height {
		return nil, fmt.Errorf("%w: %v: lpic %vx%v does not fit %v bytes",
			ErrDecode, lumpInfo.Name, width, height, len(lump))
	}
	pic := newPicture(lumpInfo.Name, width, height)
	copy(pic.Pixels, lump[8:8+width*height])
	for i := range pic.Alpha {
		pic.Alpha[i] = 255
	}
	return pic, nil
}

// Sky lumps are fixed-size column-first images.
const SkyWidth, SkyHeight = 256, 200

// GetSky reads and decodes a sky backdrop lump.
func (w *WAD) GetSky(name string) (*Picture, error) {
	return w.cachedPicture(name, func(lumpInfo *LumpInfo, lump []byte) (*Picture, error) {
		return decodeColumnFirst(lumpInfo.Name, SkyWidth, SkyHeight, lump, -1)
	})
}

// decodeColumnFirst transposes column-first pixel data into a row-major
// picture. maskIndex marks the transparent palette index, -1 for none.
func decodeColumnFirst(name string, width, height int, lump []byte, maskIndex int) (*Picture, error) {
	if len(lump) < width*height {
		return nil, fmt.Errorf("%w: %v: %v bytes short of %vx%v image",
			ErrDecode, name, len(lump), width, height)
	}
	pic := newPicture(name, width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			index := lump[x*height+y]
			pic.Pixels[y*width+x] = index
			if int(index) != maskIndex {
				pic.Alpha[y*width+x] = 255
			}
		}
	}
	return pic, nil
}

type binPatchHeader struct {
	OrigSize   int16
	Width      int16
	Height     int16
	LeftOffset int16
	TopOffset  int16
}

// GetPatch reads and decodes a patch lump (masked sprite or wall
// overlay stored as columns of posts).
func (w *WAD) GetPatch(name string) (*Picture, error) {
	return w.cachedPicture(name, decodePatch)
}

func decodePatch(lumpInfo *LumpInfo, lump []byte) (*Picture, error) {
	reader := bytes.NewReader(lump)
	var header binPatchHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v: truncated patch header", ErrDecode, lumpInfo.Name)
	}
	if header.OrigSize > 320 || header.Width > 320 || header.Height > 320 ||
		header.Width > header.OrigSize ||
		-header.TopOffset > header.OrigSize || -header.LeftOffset > header.OrigSize {
		return nil, fmt.Errorf("%w: %v: implausible patch header %+v", ErrDecode, lumpInfo.Name, header)
	}

	// A translucency level word may sit between the header and the
	// column offsets. The first column offset always points just past
	// the offset array, which tells the two layouts apart.
	headerSize := 10
	var translevel uint16
	if err := binary.Read(reader, binary.LittleEndian, &translevel); err != nil {
		return nil, fmt.Errorf("%w: %v: truncated patch", ErrDecode, lumpInfo.Name)
	}
	translucent := false
	if int(translevel) != headerSize+int(header.Width)*2 {
		translucent = true
		headerSize += 2
	}

	offsets := make([]uint16, header.Width)
	reader = bytes.NewReader(lump[headerSize:])
	if err := binary.Read(reader, binary.LittleEndian, offsets); err != nil {
		return nil, fmt.Errorf("%w: %v: truncated column offsets", ErrDecode, lumpInfo.Name)
	}

	actWidth := max(int(header.Width-header.LeftOffset), int(header.OrigSize))
	actHeight := max(int(header.Height-header.TopOffset), int(header.OrigSize))
	pic := newPicture(lumpInfo.Name, actWidth, actHeight)
	pic.LeftOffset = int(header.LeftOffset)
	pic.TopOffset = int(header.TopOffset)

	put := func(x, y int, index, alpha byte) error {
		px := x - pic.LeftOffset
		py := y - pic.TopOffset
		if px < 0 || px >= actWidth || py < 0 || py >= actHeight {
			return fmt.Errorf("%w: %v: post pixel (%v,%v) outside %vx%v",
				ErrDecode, lumpInfo.Name, x, y, actWidth, actHeight)
		}
		pic.Pixels[py*actWidth+px] = index
		pic.Alpha[py*actWidth+px] = alpha
		return nil
	}

	// Expand each column's posts.
	for x, offset := range offsets {
		pos := int(offset)
		for {
			if pos+1 >= len(lump) {
				return nil, fmt.Errorf("%w: %v: truncated post in column %v", ErrDecode, lumpInfo.Name, x)
			}
			yStart := int(lump[pos])
			numPixels := int(lump[pos+1])
			pos += 2
			if yStart == 255 {
				break
			}
			if translucent && pos < len(lump) && lump[pos] == 254 {
				// Translucent run: no pixel data, half coverage.
				for y := yStart; y < yStart+numPixels; y++ {
					if err := put(x, y, 0, 128); err != nil {
						return nil, err
					}
				}
				pos++
				continue
			}
			if pos+numPixels > len(lump) {
				return nil, fmt.Errorf("%w: %v: truncated post in column %v", ErrDecode, lumpInfo.Name, x)
			}
			for i := 0; i < numPixels; i++ {
				if err := put(x, yStart+i, lump[pos+i], 255); err != nil {
					return nil, err
				}
			}
			pos += numPixels
		}
	}
	return pic, nil
}

type binSmallPicHeader struct {
	Width, Height uint8
}

// GetPic reads and decodes a picture lump, trying the large header
// form first and falling back to the small planar form.
func (w *WAD) GetPic(name string) (*Picture, error) {
	return w.cachedPicture(name, decodePic)
}

func decodePic(lumpInfo *LumpInfo, lump []byte) (*Picture, error) {
	// Large pics carry an lpic header and column-first data with the
	// column order reversed.
	var header binLpicHeader
	if err := binary.Read(bytes.NewReader(lump), binary.LittleEndian, &header); err == nil {
		width, height := int(header.Width), int(header.Height)
		if width > 0 && height > 0 && width*height+8 == len(lump) {
			data := lump[8:]
			pic := newPicture(lumpInfo.Name, height, width)
			for y := 0; y < width; y++ {
				for x := 0; x < height; x++ {
					pic.Pixels[y*height+x] = data[(width-1-x)*height+y]
					pic.Alpha[y*height+x] = 255
				}
			}
			return pic, nil
		}
	}

	// Small pics: width is stored divided by four and the pixel data
	// is interleaved in four phases, plus two to four padding bytes.
	if len(lump) < 2 {
		return nil, fmt.Errorf("%w: %v: too short for a pic", ErrDecode, lumpInfo.Name)
	}
	width, height := int(lump[0])*4, int(lump[1])
	size := width * height
	if size == 0 || len(lump) < size+4 || len(lump) > size+6 {
		return nil, fmt.Errorf("%w: %v: %v bytes is not a %vx%v pic",
			ErrDecode, lumpInfo.Name, len(lump), width, height)
	}
	data := lump[2:]
	pic := newPicture(lumpInfo.Name, width, height)
	phaseSize := size / 4
	for phase := 0; phase < 4; phase++ {
		for pos := 0; pos < phaseSize; pos++ {
			pic.Pixels[pos*4+phase] = data[phaseSize*phase+pos]
		}
	}
	for i := range pic.Alpha {
		pic.Alpha[i] = 255
	}
	return pic, nil
}

type binLBMHeader struct {
	Width, Height int16
}

// GetLBM reads and decodes an LBM-format image lump. The picture keeps
// the lump's embedded palette.
func (w *WAD) GetLBM(name string) (*Picture, error) {
	return w.cachedPicture(name, decodeLBM)
}

func decodeLBM(lumpInfo *LumpInfo, lump []byte) (*Picture, error) {
	reader := bytes.NewReader(lump)
	var header binLBMHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v: truncated lbm header", ErrDecode, lumpInfo.Name)
	}
	width, height := int(header.Width), int(header.Height)
	if width <= 0 || height <= 0 || len(lump) < 4+PaletteBytes {
		return nil, fmt.Errorf("%w: %v: implausible lbm header", ErrDecode, lumpInfo.Name)
	}
	pal, err := NewPalette(lump[4 : 4+PaletteBytes])
	if err != nil {
		return nil, err
	}

	pic := newPicture(lumpInfo.Name, width, height)
	pic.Palette = pal
	for i := range pic.Alpha {
		pic.Alpha[i] = 255
	}

	// PackBits run-length expansion.
	data := lump[4+PaletteBytes:]
	pos, index := 0, 0
	for pos < len(data) && index < width*height {
		headerByte := int(data[pos])
		pos++
		switch {
		case headerByte < 0x80:
			count := headerByte + 1
			if pos+count > len(data) || index+count > width*height {
				return nil, fmt.Errorf("%w: %v: literal run overruns lbm data", ErrDecode, lumpInfo.Name)
			}
			copy(pic.Pixels[index:index+count], data[pos:pos+count])
			pos += count
			index += count
		case headerByte > 0x80:
			count := 0x100 - headerByte + 1
			if pos >= len(data) || index+count > width*height {
				return nil, fmt.Errorf("%w: %v: repeat run overruns lbm data", ErrDecode, lumpInfo.Name)
			}
			for i := 0; i < count; i++ {
				pic.Pixels[index+i] = data[pos]
			}
			pos++
			index += count
		}
	}
	return pic, nil
}

// cachedPicture decodes a named lump through decode, consulting and
// filling the picture cache.
func (w *WAD) cachedPicture(name string, decode func(*LumpInfo, []byte) (*Picture, error)) (*Picture, error) {
	name = strings.ToUpper(name)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pictures == nil {
		w.pictures = make(map[string]*Picture)
	} else if p, ok := w.pictures[name]; ok {
		return p, nil
	}
	lumpInfo, ok := w.Lump(name)
	if !ok {
		return nil, fmt.Errorf("%v lump not found", name)
	}
	lump, err := w.readLump(lumpInfo)
	if err != nil {
		return nil, err
	}
	pic, err := decode(lumpInfo, lump)
	if err != nil {
		return nil, err
	}
	w.pictures[name] = pic
	return pic, nil
}
