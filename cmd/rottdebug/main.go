// Command rottdebug dumps the levels of RTL or RTC files as HTML grid
// tables showing every cell's raw wall, sprite and info values.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/stuarthighley/rott/isomap"
	"github.com/stuarthighley/rott/rtl"
)

func main() {
	outDir := flag.String("o", ".", "output directory")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %v [flags] file.rtl...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *verbose {
		l := log.New(os.Stderr, "", log.LstdFlags)
		rtl.SetLogger(l)
		isomap.SetLogger(l)
	}

	for _, input := range flag.Args() {
		if err := dump(input, *outDir); err != nil {
			log.Fatalf("%v: %v", input, err)
		}
	}
}

func dump(input, dir string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	// Raw planes only; switch and timer interpretation is not needed for
	// a cell dump and must not block a broken level from being inspected.
	file, err := rtl.NewRaw(data)
	if err != nil {
		return err
	}
	for _, err := range file.Skipped {
		log.Printf("Warning: %v", err)
	}
	for _, level := range file.Levels {
		path, err := isomap.WriteDebugHTML(level, dir)
		if err != nil {
			return err
		}
		log.Printf("Wrote %v", path)
	}
	return nil
}
