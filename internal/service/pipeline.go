package service

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"img-hist/internal/config"
	"img-hist/internal/histogram"
	"img-hist/internal/model"
	"img-hist/internal/render"
)

const outputSuffix = "_histogram.png"

type Result struct {
	Histogram histogram.Histogram
	Raster    *image.NRGBA
	Figure    image.Image
}

// Image returns the bare raster when raw is set, the framed figure otherwise.
func (r *Result) Image(raw bool) image.Image {
	if raw {
		return r.Raster
	}
	return r.Figure
}

func Process(img image.Image, mode model.Mode, style model.Style, figWidth, figHeight int) (Result, error) {
	if img == nil {
		return Result{}, errors.New("image is nil")
	}
	switch mode {
	case model.ModeBrightness:
		img = histogram.Brighten(img)
	case model.ModeEqualize:
		img = histogram.Equalize(img)
	}
	style = style.ForMode(mode)

	res := Result{Histogram: histogram.Compute(img)}
	res.Raster = render.Canvas(&res.Histogram, style)
	res.Figure = render.Figure(res.Raster, style, figWidth, figHeight)
	return res, nil
}

// OutputPath swaps the extension of input for "_histogram.png", keeping the
// directory: photo.jpg becomes photo_histogram.png.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	if ext == filepath.Base(input) {
		ext = ""
	}
	return strings.TrimSuffix(input, ext) + outputSuffix
}

// RenderFile loads input, renders its histogram and writes it to output,
// or next to input when output is empty. Existing files are overwritten.
func RenderFile(cfg config.Config, input, output string, mode model.Mode, raw bool) (model.Render, error) {
	img, err := imaging.Open(input, imaging.AutoOrientation(true))
	if err != nil {
		return model.Render{}, fmt.Errorf("open image: %w", err)
	}
	res, err := Process(img, mode, cfg.Style, cfg.FigureWidth, cfg.FigureHeight)
	if err != nil {
		return model.Render{}, err
	}
	if output == "" {
		output = OutputPath(input)
	}
	if err := savePNG(res.Image(raw), output); err != nil {
		return model.Render{}, fmt.Errorf("save histogram: %w", err)
	}
	rec := newRecord(filepath.Base(input), img.Bounds(), mode, raw, &res)
	rec.Output = output
	return rec, nil
}

// savePNG always writes PNG, whatever extension path carries.
func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func newRecord(source string, bounds image.Rectangle, mode model.Mode, raw bool, res *Result) model.Render {
	rec := model.Render{
		ID:          uuid.NewString(),
		Source:      source,
		Mode:        mode,
		ImageWidth:  bounds.Dx(),
		ImageHeight: bounds.Dy(),
		MaxBin:      res.Histogram.Max(),
		Raw:         raw,
		CreatedAt:   time.Now().UnixMilli(),
	}
	for ch := 0; ch < histogram.Channels; ch++ {
		rec.Peaks[ch] = res.Histogram.Peak(ch)
	}
	return rec
}
