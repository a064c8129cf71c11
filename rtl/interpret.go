package rtl

import (
	"fmt"
	"math"
	"sort"
)

// Timer is a timed object: a cell that activates between two wall-clock
// stamps, given in seconds.
type Timer struct {
	Cell int
	From int
	// To is -1 when no end stamp was found next to the timed cell.
	To int
}

// SwitchLink ties a switch cell to the cells it triggers. Timed holds
// the schedule when the "switch" is a timer rather than a real switch.
type SwitchLink struct {
	Label       string
	SwitchCell  int
	TargetCells []int
	Timed       *Timer
}

// ElevatorGroup is the set of cells sharing one elevator id.
type ElevatorGroup struct {
	ID    int
	Cells []int
}

// Sprite and info plane code points with structural meaning.
const (
	timerSprite      = 0x79
	trampolineSprite = 193
	arcSineInfo      = 11
	arcRampInfo      = 12
	elevatorFirst    = 90
	elevatorLast     = 97
)

// switchIndex converts a switch info value (format XXYY, high byte the
// column and low byte the row) into a cell index.
func switchIndex(info uint16) int {
	return int(info)/256 + int(info)%256*MapWidth
}

// timeSeconds converts a timer info value (format MMSS) into seconds.
func timeSeconds(info uint16) int {
	return int(info)/256*60 + int(info)%256
}

// timeStamp formats seconds as mm:ss.
func timeStamp(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// interpret extracts the metadata tables from the raw planes: timed
// objects from the reserved corner cells, switch references, elevator
// groups, and item arcs, which it rewrites into per-cell loft heights.
func (l *Level) interpret() error {
	if err := l.findTimers(); err != nil {
		return err
	}

	switchMap := map[int]*SwitchLink{}
	for _, t := range l.Timers {
		timer := t
		link := &SwitchLink{Label: l.labels[t.Cell], SwitchCell: t.Cell, Timed: &timer}
		switchMap[t.Cell] = link
		l.Switches = append(l.Switches, link)
	}

	switchNum := 0
	for index := 7; index < MapSize; index++ {
		info := l.Info[index]

		// Switch references point from the triggered cell back to
		// the switch that drives it.
		if info > 0x100 && info < 0x8000 {
			swIndex := switchIndex(info)
			if swIndex >= MapSize {
				return fmt.Errorf("%w: level %v: switch reference %#04x outside grid",
					ErrFormat, l.Index, info)
			}
			link, ok := switchMap[swIndex]
			if !ok {
				// Letters first, then numbers.
				var label string
				if switchNum < 26 {
					label = string(rune('A' + switchNum))
				} else {
					label = fmt.Sprint(switchNum - 25)
				}
				switchNum++
				l.labels[swIndex] = label
				link = &SwitchLink{Label: label, SwitchCell: swIndex}
				switchMap[swIndex] = link
				l.Switches = append(l.Switches, link)
			}
			link.TargetCells = append(link.TargetCells, index)
		}

		if info == arcSineInfo || info == arcRampInfo {
			l.loftArc(index, info)
		}
	}

	l.findElevators()
	return nil
}

// findTimers scans the reserved corner cells for timer sprites. Each
// one points at the timed object, which carries the start stamp; the
// end stamp sits in an orthogonal neighbor.
func (l *Level) findTimers() error {
	for index := 0; index < 15; index++ {
		if l.Sprites[index] != timerSprite {
			continue
		}
		timedCell := switchIndex(l.Info[index])
		if timedCell >= MapSize {
			return fmt.Errorf("%w: level %v: timer reference %#04x outside grid",
				ErrFormat, l.Index, l.Info[index])
		}
		timer := Timer{Cell: timedCell, From: timeSeconds(l.Info[timedCell]), To: -1}
		l.Info[index] = 0
		l.Info[timedCell] = 0
		l.Sprites[index] = 0

		for _, direction := range []Direction{Up, Left, Down, Right} {
			if l.NextInfo(timedCell, direction) > 0 {
				timer.To = timeSeconds(l.NextInfo(timedCell, direction))
				l.Info[l.Move(timedCell, direction, 1)] = 0
				break
			}
		}

		label := timeStamp(timer.From)
		if timer.To >= 0 {
			label += "\n  to\n" + timeStamp(timer.To)
		}
		l.labels[timedCell] = label
		l.Timers = append(l.Timers, timer)
	}
	return nil
}

// loftArc rewrites an arc or ramp region of item sprites into per-cell
// loft heights. The region is oriented away from the trampoline at one
// of its ends; sine arcs peak mid-span, ramps climb linearly.
func (l *Level) loftArc(index int, info uint16) {
	// Measure the region. The scan always reaches it at its
	// upper-left corner first.
	var region [2]int
	for _, checkDir := range []Direction{Right, Down} {
		pos := index
		for l.Info[pos] == info {
			region[int(checkDir)%2]++
			pos = l.Move(pos, checkDir, 1)
		}
	}

	// The long axis is checked first for the trampoline.
	orientation := NoDir
	checkOrder := []Direction{Up, Down, Left, Right}
	if region[0] > region[1] {
		checkOrder = []Direction{Left, Right, Up, Down}
	}
	for _, checkDir := range checkOrder {
		perpDir := Direction((int(checkDir) + 1) % 2 * 3)
		pos := l.Move(index, perpDir, region[(int(checkDir)+1)%2]/2)
		if checkDir == Right || checkDir == Down {
			pos = l.Move(pos, checkDir, region[int(checkDir)%2]-1)
		}
		if l.NextSprite(pos, checkDir) == trampolineSprite {
			orientation = checkDir.Reverse()
			break
		}
	}
	if orientation == NoDir {
		logger.Printf("Level %v: no trampoline next to arc at cell %v", l.Index, index)
		return
	}

	span := region[int(orientation)%2]
	perp := region[(int(orientation)+1)%2]
	if span < 1 || (info == arcRampInfo && span < 2) {
		return
	}

	pos := index
	if orientation == Left || orientation == Up {
		pos = l.Move(index, orientation.Reverse(), span-1)
	}
	for i := 0; i < span; i++ {
		homePos := pos
		for j := 0; j < perp; j++ {
			if info == arcSineInfo {
				rise := math.Sin(float64(i)*math.Pi/float64(span)) * float64(l.Height-64) / 4
				l.Info[pos] = uint16(0xB000 + int(rise))
			} else {
				l.Info[pos] = uint16(0xB000 + i*(l.Height-64)/(4*(span-1)))
			}
			// The perpendicular walk always runs right or down.
			pos = l.Move(pos, Direction((int(orientation)+1)%2*3), 1)
		}
		pos = l.Move(homePos, orientation, 1)
	}
}

// findElevators groups elevator cells by their shared id code.
func (l *Level) findElevators() {
	groups := map[int][]int{}
	for index := 7; index < MapSize; index++ {
		code := l.Sprites[index]
		if code >= elevatorFirst && code <= elevatorLast {
			id := int(code) - elevatorFirst + 1
			groups[id] = append(groups[id], index)
		}
	}
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		l.Elevators = append(l.Elevators, ElevatorGroup{ID: id, Cells: groups[id]})
	}
}
