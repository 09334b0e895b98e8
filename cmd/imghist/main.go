package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"img-hist/internal/config"
	"img-hist/internal/model"
	"img-hist/internal/service"
)

func main() {
	raw := flag.Bool("raw", false, "save the bare histogram raster instead of the plot figure")
	output := flag.String("o", "", "output PNG path (default: <image>_histogram.png)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: imghist [flags] <image_path> [%s|%s]\n\nFlags:\n", model.BrightnessArg, model.EqualizeArg)
		flag.PrintDefaults()
	}
	flag.Parse()

	input, mode, ok := parseArgs(flag.Args())
	if !ok {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rec, err := service.RenderFile(cfg, input, *output, mode, *raw)
	if err != nil {
		log.Fatalf("histogram %s: %v", input, err)
	}
	if rec.MaxBin == 0 {
		log.Printf("%s has no pixels, histogram has no bars", input)
	}
	log.Printf("saved %s histogram of %s (%dx%d) to %s", rec.Mode, input, rec.ImageWidth, rec.ImageHeight, rec.Output)
}

// parseArgs reads the positional arguments. Only the exact literals
// brightness_hist and equalize select a mode; any other second argument
// is ignored.
func parseArgs(args []string) (input string, mode model.Mode, ok bool) {
	if len(args) < 1 || args[0] == "" {
		return "", model.ModeRGB, false
	}
	mode = model.ModeRGB
	if len(args) > 1 {
		switch args[1] {
		case model.BrightnessArg:
			mode = model.ModeBrightness
		case model.EqualizeArg:
			mode = model.ModeEqualize
		}
	}
	return args[0], mode, true
}
