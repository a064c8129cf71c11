package isomap

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/stuarthighley/rott/rtl"
)

const debugStyle = `table { border-collapse: collapse; }
td { border: 1px solid #888; font-family: monospace; font-size: 0.6em; vertical-align: top; }
.index { font-size: 0.8em; }
.info { color: blue; }
.sprite { color: green; }
.wall { background: #DDD; }
.sky { background: #BBF; }
.nothing { background: #BBB; }`

// DebugName is the plane dump file name for a level.
func DebugName(level *rtl.Level) string {
	return fmt.Sprintf("%02d-%s.html", level.Index+1, level.Name)
}

// WriteDebugHTML dumps a level's raw planes as an HTML grid, one table
// cell per map cell with its wall, info and sprite codes. Pass levels
// read without the interpretation pass so the reserved header cells
// show as stored.
func WriteDebugHTML(level *rtl.Level, dir string) (string, error) {
	logger.Printf("Writing plane dump for level %v (%v)", level.Index+1, level.Name)
	title := html.EscapeString(fmt.Sprintf("%02d-%s", level.Index+1, level.Name))

	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<title>%s</title>\n", title)
	fmt.Fprintf(&b, "<style>\n%s\n</style>\n</head>\n<body>\n", debugStyle)
	fmt.Fprintf(&b, "<h1>%s</h1>\n<table>\n", title)

	for row := 0; row < rtl.MapHeight; row++ {
		b.WriteString("<tr>")
		for col := 0; col < rtl.MapWidth; col++ {
			index := row*rtl.MapWidth + col
			writeDebugCell(&b, index, level.Walls[index], level.Sprites[index], level.Info[index])
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n</body>\n</html>\n")

	path := filepath.Join(dir, DebugName(level))
	return path, os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeDebugCell(b *strings.Builder, index int, walls, sprites, info uint16) {
	switch {
	case walls == 0:
		b.WriteString(`<td class="nothing">`)
	case info == skyInfo:
		b.WriteString(`<td class="sky">`)
	case walls >= 108 && walls <= 152:
		b.WriteString("<td>")
	default:
		b.WriteString(`<td class="wall">`)
	}

	fmt.Fprintf(b, `<span class="index">%v</span>`, index)
	if walls != 0 {
		fmt.Fprintf(b, "<br>W%v", walls)
	}
	if info != 0 {
		fmt.Fprintf(b, `<br><span class="info">I%04X</span>`, info)
	}
	if sprites != 0 {
		fmt.Fprintf(b, `<br><span class="sprite">S%v</span>`, sprites)
	}
	b.WriteString("</td>")
}
