// Package wad provides access to Rise of the Triad's data archives also
// known as WAD files. The container layout is shared with Doom's WAD
// format but the lump formats inside are ROTT's own.
package wad

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrFormat reports a malformed archive: bad signature, or a directory or
// lump range that falls outside the file.
var ErrFormat = errors.New("wad: format error")

// ErrDecode reports a lump whose payload could not be decoded. It is
// always isolated to the one lump; the archive remains usable.
var ErrDecode = errors.New("wad: decode error")

// WAD represents a ROTT data archive. Lumps are grouped into sections by
// the zero-size marker lumps surrounding them (WALLSTRT/WALLSTOP and so
// on). The directory is read eagerly; lump payloads are read on demand.
type WAD struct {
	header    *Header
	data      []byte
	lumpInfos []LumpInfo
	lumpNums  map[string]int
	sections  map[string][]*LumpInfo
	Palette   Palette

	// mu guards the decode caches; readers of the same archive may
	// run concurrently.
	mu       sync.Mutex
	pictures map[string]*Picture
	fonts    map[string]*Font
}

type binHeader struct {
	Magic        [4]byte
	NumLumps     int32
	InfoTableOfs int32
}

type Header struct {
	Magic        string
	NumLumps     int
	InfoTableOfs int
}

type binLumpInfo struct {
	Filepos int32
	Size    int32
	Name    String8
}

type LumpInfo struct {
	Name    string
	Section string
	Filepos int
	Size    int
}

// RGB is one palette entry.
type RGB struct {
	Red, Green, Blue uint8
}

// Palette is an ordered list of RGB triples. The archive's main PAL lump
// always carries 256 entries; decoders accept shorter synthetic palettes
// and fail with ErrDecode when a pixel indexes past the end.
type Palette []RGB

// PaletteBytes is the on-disk size of a full 256-entry palette.
const PaletteBytes = 768

// NewPalette decodes a packed RGB palette from raw bytes.
func NewPalette(data []byte) (Palette, error) {
	if len(data)%3 != 0 {
		return nil, fmt.Errorf("%w: palette of %d bytes is not RGB triples", ErrDecode, len(data))
	}
	pal := make(Palette, len(data)/3)
	for i := range pal {
		pal[i] = RGB{data[i*3], data[i*3+1], data[i*3+2]}
	}
	return pal, nil
}

// GeneralSection holds the lumps that sit outside any marker pair.
const GeneralSection = "General"

// WAD eight-character string type. Null-terminated for short strings.
type String8 [8]byte

// String converts String8 to string
func (s String8) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return string(s[0:i])
}

// Open reads the named archive into memory and parses its directory.
func Open(filename string) (*WAD, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return New(data)
}

// New parses an archive from an in-memory buffer. The buffer is retained
// and must not be modified afterwards.
func New(data []byte) (*WAD, error) {
	logger.Println("Start reading WAD")
	w := &WAD{data: data}

	// Read header
	var binHeader binHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &binHeader); err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrFormat)
	}
	if !strings.HasSuffix(string(binHeader.Magic[:]), "WAD") {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, binHeader.Magic)
	}
	w.header = &Header{string(binHeader.Magic[:]), int(binHeader.NumLumps), int(binHeader.InfoTableOfs)}

	// Read directory
	if err := w.readInfoTables(); err != nil {
		return nil, err
	}

	// Read PAL
	if num, ok := w.lumpNums["PAL"]; ok {
		raw, err := w.readLump(&w.lumpInfos[num])
		if err != nil {
			return nil, err
		}
		pal, err := NewPalette(raw)
		if err != nil {
			return nil, err
		}
		w.Palette = pal
		logger.Printf("Read palette of %v entries", len(pal))
	}

	logger.Printf("Read %v lumps in %v sections", len(w.lumpInfos), len(w.sections))
	return w, nil
}

func (w *WAD) readInfoTables() error {
	dirSize := binary.Size(binLumpInfo{})
	end := w.header.InfoTableOfs + dirSize*w.header.NumLumps
	if w.header.NumLumps < 0 || w.header.InfoTableOfs < 0 || end > len(w.data) {
		return fmt.Errorf("%w: directory of %v lumps at %v overruns %v byte file",
			ErrFormat, w.header.NumLumps, w.header.InfoTableOfs, len(w.data))
	}

	reader := bytes.NewReader(w.data[w.header.InfoTableOfs:end])
	lumpNums := map[string]int{}
	sections := map[string][]*LumpInfo{}
	lumpInfos := make([]LumpInfo, w.header.NumLumps)
	section := GeneralSection
	for i := 0; i < w.header.NumLumps; i++ {
		var binInfo binLumpInfo
		if err := binary.Read(reader, binary.LittleEndian, &binInfo); err != nil {
			return fmt.Errorf("%w: truncated directory", ErrFormat)
		}
		lumpInfo := LumpInfo{binInfo.Name.String(), section, int(binInfo.Filepos), int(binInfo.Size)}
		if lumpInfo.Size == 0 {
			// Zero-size lumps are section markers.
			switch {
			case strings.HasSuffix(lumpInfo.Name, "STOP"):
				section = GeneralSection
			case strings.HasSuffix(lumpInfo.Name, "STRT"):
				section = strings.TrimSuffix(lumpInfo.Name, "STRT")
			case strings.HasSuffix(lumpInfo.Name, "START"):
				section = strings.TrimSuffix(lumpInfo.Name, "START")
			default:
				section = lumpInfo.Name
			}
			lumpInfos[i] = lumpInfo
			continue
		}
		if lumpInfo.Filepos < 0 || lumpInfo.Filepos+lumpInfo.Size > len(w.data) {
			return fmt.Errorf("%w: lump %v range %v+%v overruns %v byte file",
				ErrFormat, lumpInfo.Name, lumpInfo.Filepos, lumpInfo.Size, len(w.data))
		}
		lumpInfo.Section = section
		lumpNums[lumpInfo.Name] = i
		lumpInfos[i] = lumpInfo
		if lumpInfo.Name != "PAL" {
			sections[section] = append(sections[section], &lumpInfos[i])
		}
	}
	w.lumpNums = lumpNums
	w.lumpInfos = lumpInfos
	w.sections = sections
	return nil
}

// Header returns the parsed archive header.
func (w *WAD) Header() Header {
	return *w.header
}

// Lumps returns the full directory in file order, markers included.
func (w *WAD) Lumps() []LumpInfo {
	return w.lumpInfos
}

// Section returns the lumps between one marker pair, in file order.
func (w *WAD) Section(name string) []*LumpInfo {
	return w.sections[name]
}

// Lump finds a lump by name anywhere in the archive.
func (w *WAD) Lump(name string) (*LumpInfo, bool) {
	num, ok := w.lumpNums[strings.ToUpper(name)]
	if !ok {
		return nil, false
	}
	return &w.lumpInfos[num], true
}

// Read entire lump payload. The returned slice aliases the archive buffer.
func (w *WAD) readLump(lumpInfo *LumpInfo) ([]byte, error) {
	if lumpInfo.Filepos < 0 || lumpInfo.Filepos+lumpInfo.Size > len(w.data) {
		return nil, fmt.Errorf("%w: truncated lump %v", ErrFormat, lumpInfo.Name)
	}
	return w.data[lumpInfo.Filepos : lumpInfo.Filepos+lumpInfo.Size], nil
}

// Raw returns a lump's payload bytes without decoding.
func (w *WAD) Raw(lumpInfo *LumpInfo) ([]byte, error) {
	return w.readLump(lumpInfo)
}
