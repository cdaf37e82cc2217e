// Command vgashot renders one page of a text window dump as a PNG image.
//
// Dumps hold the 32 KiB color text window as little-endian words; they can
// be taken from a QEMU monitor with "pmemsave 0xb8000 0x8000 <file>".
package main

import (
	"flag"
	"fmt"
	"kfs/device/video/console"
	"kfs/tools/internal/vgaemu"
	"kfs/tools/internal/vgarender"
	"log"
	"os"
)

var (
	inPath  = flag.String("in", "", "text window dump to read")
	outPath = flag.String("out", "vgashot.png", "PNG file to write")
	page    = flag.Int("page", 0, "index of the page to render")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("[vgashot] ")

	if err := runTool(*inPath, *outPath, *page); err != nil {
		log.Fatal(err)
	}
}

func runTool(in, out string, page int) error {
	if in == "" {
		return fmt.Errorf("missing -in argument")
	}

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	adapter := vgaemu.New()
	if err := adapter.Load(f); err != nil {
		return err
	}

	pageSize := console.DefaultColumns * console.DefaultRows
	if page < 0 || (page+1)*pageSize > vgaemu.WindowWords {
		return fmt.Errorf("page %d is outside the text window", page)
	}

	grid, gerr := console.NewGrid(adapter.Framebuffer()[page*pageSize:], console.DefaultColumns, console.DefaultRows)
	if gerr != nil {
		return gerr
	}

	return vgarender.SavePNG(out, grid)
}
