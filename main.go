package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fogleman/gg"

	"skema/editor"
	"skema/preview"
	"skema/render"
	"skema/tui"
)

func main() {
	var (
		toPNG        = flag.Bool("png", false, "Render the diagram to a PNG and exit")
		previewBlock = flag.Int("preview", 0, "Render the given block's content preview to a PNG and exit")
		outputFile   = flag.String("o", "diagram.png", "Output file for -png and -preview")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [diagram.json]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "An interactive block-diagram editor with clusters and anchored connections.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                          # Start an empty editor\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s diagram.json             # Edit an existing diagram\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -png -o out.png diagram.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -preview 3 -o formula.png diagram.json\n", os.Args[0])
	}
	flag.Parse()

	ed := editor.New()
	filename := flag.Arg(0)
	if filename != "" {
		if err := ed.Open(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	switch {
	case *toPNG:
		if err := render.PNG(ed.Snapshot(), *outputFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Rendered %s\n", *outputFile)

	case *previewBlock != 0:
		b := ed.Block(*previewBlock)
		if b == nil {
			fmt.Fprintf(os.Stderr, "Error: no block with id %d\n", *previewBlock)
			os.Exit(1)
		}
		img, err := preview.Render(b.Content)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := gg.SavePNG(*outputFile, img); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Rendered preview of block %d to %s\n", *previewBlock, *outputFile)

	default:
		if err := tui.Run(ed, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}
