// Package rtl reads Rise of the Triad level files (RTL and RTC). Each
// file carries up to 100 levels; each level is three run-length
// compressed 128x128 planes of 16-bit codes (walls, sprites, info) plus
// derived metadata for switches, timers and elevators.
package rtl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrFormat reports a malformed level file or level record. Whole-file
// failures (bad signature, truncated header table) abort the load;
// single-level failures skip only that level.
var ErrFormat = errors.New("rtl: format error")

// Map grid dimensions. Every ROTT level is the same size.
const (
	MapWidth  = 128
	MapHeight = 128
	MapSize   = MapWidth * MapHeight
)

// NumLevelSlots is the fixed number of level header slots in a file.
const NumLevelSlots = 100

// Direction indexes the four orthogonal neighbors of a cell.
type Direction int

const (
	Right Direction = iota // +col
	Up                     // -row
	Left                   // -col
	Down                   // +row
)

// NoDir marks an unresolved direction.
const NoDir Direction = -1

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return (d + 2) % 4
}

type binHeader struct {
	Signature [4]byte
	Version   int32
}

type binLevelHeader struct {
	Used         uint32
	CRC          uint32
	RLEWTag      uint32
	Specials     uint32
	PlaneOffsets [3]uint32
	PlaneLengths [3]uint32
	Name         [24]byte
}

// Plane is one 128x128 grid of level codes, row-major.
type Plane []uint16

// At returns the code at a row and column.
func (p Plane) At(row, col int) uint16 {
	return p[row*MapWidth+col]
}

// File is a parsed RTL/RTC container.
type File struct {
	Signature string
	Version   int
	// Levels holds the used, well-formed levels in slot order.
	Levels []*Level
	// Skipped collects the per-level errors for malformed slots.
	Skipped []error
}

// Level is one level record with decoded planes and derived metadata.
type Level struct {
	Index    int
	Name     string
	CRC      uint32
	Specials uint32

	Walls   Plane
	Sprites Plane
	Info    Plane

	// Floor is the floor tile set number, Height the wall height in
	// pixels, Song the music track. All pulled from the reserved
	// corner cells before they are cleared.
	Floor  int
	Height int
	Song   int

	Switches  []*SwitchLink
	Timers    []Timer
	Elevators []ElevatorGroup

	// labels maps a cell index to its annotation text: a switch
	// letter, or a timer interval.
	labels map[int]string
}

// Open reads and parses the named level file.
func Open(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return New(data)
}

// New parses a level file from memory, including the interpretation
// pass that extracts switches, timers, elevator groups and item arcs.
func New(data []byte) (*File, error) {
	return load(data, true)
}

// NewRaw parses a level file without the interpretation pass, leaving
// every plane exactly as stored. Debug output uses this form.
func NewRaw(data []byte) (*File, error) {
	return load(data, false)
}

func load(data []byte, interpret bool) (*File, error) {
	logger.Println("Start reading level file")
	reader := bytes.NewReader(data)

	var header binHeader
	if err := binary.Read(reader, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: truncated file header", ErrFormat)
	}
	signature := strings.TrimRight(string(header.Signature[:]), "\x00")
	if signature != "RTL" && signature != "RTC" {
		return nil, fmt.Errorf("%w: bad signature %q", ErrFormat, header.Signature)
	}
	file := &File{Signature: signature, Version: int(header.Version)}

	for i := 0; i < NumLevelSlots; i++ {
		var binLevel binLevelHeader
		if err := binary.Read(reader, binary.LittleEndian, &binLevel); err != nil {
			return nil, fmt.Errorf("%w: truncated level header table at slot %v", ErrFormat, i)
		}
		if binLevel.Used != 1 {
			continue
		}
		level, err := readLevel(data, i, &binLevel, interpret)
		if err != nil {
			// A malformed level skips only itself.
			logger.Printf("Skipping level %v: %v", i, err)
			file.Skipped = append(file.Skipped, err)
			continue
		}
		file.Levels = append(file.Levels, level)
	}

	logger.Printf("Read %v levels (%v skipped)", len(file.Levels), len(file.Skipped))
	return file, nil
}

func readLevel(data []byte, index int, header *binLevelHeader, interpret bool) (*Level, error) {
	level := &Level{
		Index:    index,
		Name:     strings.TrimRight(string(header.Name[:]), "\x00"),
		CRC:      header.CRC,
		Specials: header.Specials,
		labels:   map[int]string{},
	}

	planes := make([]Plane, 3)
	for p := range planes {
		plane, err := expandPlane(data, int(header.PlaneOffsets[p]),
			int(header.PlaneLengths[p]), uint16(header.RLEWTag))
		if err != nil {
			return nil, fmt.Errorf("level %v (%v) plane %v: %w", index, level.Name, p, err)
		}
		planes[p] = plane
	}
	level.Walls, level.Sprites, level.Info = planes[0], planes[1], planes[2]

	// The reserved corner cells carry level-wide settings.
	level.Floor = int(level.Walls[0]) - 179
	if h := level.Sprites[0]; h < 0x100 {
		level.Height = (int(h) - 0x59) * 64
	} else {
		level.Height = (int(h) - 0x1B9) * 64
	}
	level.Song = int(level.Info[0])

	if interpret {
		if err := level.interpret(); err != nil {
			return nil, err
		}
		for i := 0; i < 7; i++ {
			level.Walls[i], level.Sprites[i], level.Info[i] = 0, 0, 0
		}
	}
	return level, nil
}

// expandPlane applies the run-length scheme of the level format: a tag
// word introduces a (count, value) run, any other word is literal. The
// expansion must produce exactly one full plane.
func expandPlane(data []byte, offset, length int, tag uint16) (Plane, error) {
	if offset < 0 || length < 0 || offset+length > len(data) {
		return nil, fmt.Errorf("%w: plane range %v+%v overruns %v byte file",
			ErrFormat, offset, length, len(data))
	}
	word := func(pos int) uint16 {
		return binary.LittleEndian.Uint16(data[pos : pos+2])
	}

	plane := make(Plane, 0, MapSize)
	pos := offset
	end := offset + length
	for pos+2 <= end {
		w := word(pos)
		pos += 2
		if w != tag {
			plane = append(plane, w)
			continue
		}
		if pos+4 > end {
			return nil, fmt.Errorf("%w: truncated run at %v", ErrFormat, pos)
		}
		count := int(word(pos))
		value := word(pos + 2)
		pos += 4
		if len(plane)+count > MapSize {
			return nil, fmt.Errorf("%w: run of %v words overruns plane", ErrFormat, count)
		}
		for i := 0; i < count; i++ {
			plane = append(plane, value)
		}
	}
	if len(plane) != MapSize {
		return nil, fmt.Errorf("%w: plane expanded to %v words, want %v", ErrFormat, len(plane), MapSize)
	}
	return plane, nil
}

// Move returns the cell index one or more steps in a direction. Moves
// off the grid resolve to cell 0, which interpretation always clears,
// so it reads as empty on every plane.
func (l *Level) Move(index int, direction Direction, distance int) int {
	result := 0
	switch direction {
	case Up:
		result = index - MapWidth*distance
	case Down:
		result = index + MapWidth*distance
	case Left:
		if index%MapWidth >= distance {
			result = index - distance
		}
	case Right:
		if index%MapWidth < MapWidth-distance {
			result = index + distance
		}
	}
	if result < 0 || result >= MapSize {
		return 0
	}
	return result
}

// NextWall returns the wall code one step in a direction.
func (l *Level) NextWall(index int, direction Direction) uint16 {
	return l.Walls[l.Move(index, direction, 1)]
}

// NextSprite returns the sprite code one step in a direction.
func (l *Level) NextSprite(index int, direction Direction) uint16 {
	return l.Sprites[l.Move(index, direction, 1)]
}

// NextInfo returns the info code one step in a direction.
func (l *Level) NextInfo(index int, direction Direction) uint16 {
	return l.Info[l.Move(index, direction, 1)]
}

// Label returns the annotation text attached to a cell: a switch
// letter for switch cells, a time interval for timed objects.
func (l *Level) Label(index int) (string, bool) {
	s, ok := l.labels[index]
	return s, ok
}
