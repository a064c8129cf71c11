// Command wadextract unpacks every lump of a ROTT archive into a
// directory, decoding images to PNG and tagging audio and text lumps
// with inferred extensions. Unclassified lumps are written verbatim.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"

	"github.com/stuarthighley/rott/wad"
)

func main() {
	outDir := flag.String("o", ".", "output directory")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %v [flags] file.wad\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *verbose {
		wad.SetLogger(log.New(os.Stderr, "", log.LstdFlags))
	}

	w, err := wad.Open(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalln(err)
	}

	written, failed := 0, 0
	lumps := w.Lumps()
	for i := range lumps {
		lumpInfo := &lumps[i]
		if lumpInfo.Size == 0 {
			// Section marker, nothing to extract.
			continue
		}
		if err := extract(w, lumpInfo, *outDir); err != nil {
			log.Printf("%v: %v", lumpInfo.Name, err)
			failed++
			continue
		}
		written++
	}
	log.Printf("Extracted %v lumps to %v (%v failed)", written, *outDir, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func extract(w *wad.WAD, lumpInfo *wad.LumpInfo, dir string) error {
	asset, err := w.Decode(lumpInfo)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, asset.Name+asset.Ext)
	if asset.Kind == wad.AssetBitmap {
		return gg.NewContextForImage(asset.Image).SavePNG(path)
	}
	return os.WriteFile(path, asset.Data, 0o644)
}
