// Command rottmapper renders the levels of an RTL or RTC file as
// isometric PNG maps, using the textures and sprites of the matching
// game archive.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/stuarthighley/rott/isomap"
	"github.com/stuarthighley/rott/rtl"
	"github.com/stuarthighley/rott/wad"
)

func main() {
	wadPath := flag.String("wad", "DARKWAR.WAD", "game archive with the textures and sprites")
	outDir := flag.String("o", "", "output directory (default current)")
	levels := flag.String("levels", "", "levels to render, e.g. 1,4-6 (default all)")
	optsPath := flag.String("opts", "", "YAML render options file")
	watch := flag.Bool("watch", false, "keep running and re-render when the level file changes")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %v [flags] file.rtl\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
	input := flag.Arg(0)

	if *verbose {
		l := log.New(os.Stderr, "", log.LstdFlags)
		wad.SetLogger(l)
		rtl.SetLogger(l)
		isomap.SetLogger(l)
	}

	opts := isomap.DefaultOptions()
	if *optsPath != "" {
		data, err := os.ReadFile(*optsPath)
		if err != nil {
			log.Fatalln(err)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			log.Fatalf("%v: %v", *optsPath, err)
		}
	}
	if *outDir != "" {
		opts.OutputDir = *outDir
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	selected, err := parseLevels(*levels)
	if err != nil {
		log.Fatalln(err)
	}

	w, err := wad.Open(*wadPath)
	if err != nil {
		log.Fatalln(err)
	}
	renderer, err := isomap.New(w, opts)
	if err != nil {
		log.Fatalln(err)
	}

	if err := renderBatch(renderer, input, selected, opts); err != nil {
		log.Fatalln(err)
	}
	if *watch {
		if err := watchAndRender(renderer, input, selected, opts); err != nil {
			log.Fatalln(err)
		}
	}
}

// parseLevels reads a selection like "1,4-6" into sorted level numbers.
// An empty selection means every level.
func parseLevels(spec string) ([]int, error) {
	if spec == "" {
		return nil, nil
	}
	selected := map[int]bool{}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		first, last, isRange := strings.Cut(part, "-")
		from, err := strconv.Atoi(first)
		if err != nil || from < 1 {
			return nil, fmt.Errorf("bad level selection %q", part)
		}
		to := from
		if isRange {
			to, err = strconv.Atoi(last)
			if err != nil || to < from {
				return nil, fmt.Errorf("bad level range %q", part)
			}
		}
		for n := from; n <= to; n++ {
			selected[n] = true
		}
	}
	numbers := make([]int, 0, len(selected))
	for n := range selected {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers, nil
}

func renderBatch(renderer *isomap.Renderer, input string, selected []int, opts isomap.Options) error {
	file, err := rtl.Open(input)
	if err != nil {
		return err
	}
	for _, err := range file.Skipped {
		log.Printf("Warning: %v", err)
	}

	todo := file.Levels
	if selected != nil {
		byNumber := map[int]*rtl.Level{}
		for _, level := range file.Levels {
			byNumber[level.Index+1] = level
		}
		todo = todo[:0:0]
		for _, number := range selected {
			level, ok := byNumber[number]
			if !ok {
				return fmt.Errorf("level %v is not present in %v", number, input)
			}
			todo = append(todo, level)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var group errgroup.Group
	group.SetLimit(workers)
	for _, level := range todo {
		group.Go(func() error {
			path, err := renderer.WritePNG(level, opts.OutputDir)
			if err != nil {
				// One bad level never sinks the batch.
				log.Printf("Level %v (%v) failed: %v", level.Index+1, level.Name, err)
				return nil
			}
			log.Printf("Wrote %v", path)
			return nil
		})
	}
	return group.Wait()
}

// watchAndRender re-runs the batch whenever the level file is written.
// The parent directory is watched because editors replace files rather
// than update them in place.
func watchAndRender(renderer *isomap.Renderer, input string, selected []int, opts isomap.Options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(input)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %v", input)

	target, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			log.Printf("%v changed, re-rendering", input)
			if err := renderBatch(renderer, input, selected, opts); err != nil {
				log.Printf("Render failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watch error: %v", err)
		}
	}
}
