package isomap

import (
	"os"
	"strings"
	"testing"

	"github.com/stuarthighley/rott/rtl"
)

func TestDebugName(t *testing.T) {
	level := &rtl.Level{Index: 2, Name: "FOO"}
	if got := DebugName(level); got != "03-FOO.html" {
		t.Fatalf("DebugName = %q", got)
	}
}

func TestWriteDebugHTML(t *testing.T) {
	level := emptyLevel()
	level.Walls[10] = 1
	level.Info[10] = 0x02A0
	level.Walls[11] = 110
	level.Sprites[11] = 28
	level.Walls[12] = 108
	level.Info[12] = skyInfo

	dir := t.TempDir()
	path, err := WriteDebugHTML(level, dir)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)

	for _, want := range []string{
		`<td class="nothing">`,
		`<td class="wall">`,
		`<td class="sky">`,
		`<br>W1`,
		`<span class="info">I02A0</span>`,
		`<span class="sprite">S28</span>`,
		`<span class="index">10</span>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	// Floor-range cells get a bare td, not the wall shading.
	if !strings.Contains(page, `<td><span class="index">11</span>`) {
		t.Error("floor cell should have no class")
	}
	if rows := strings.Count(page, "<tr>"); rows != rtl.MapHeight {
		t.Errorf("%v table rows, want %v", rows, rtl.MapHeight)
	}
}
