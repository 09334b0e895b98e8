// Package render draws histogram bar canvases and the figure that frames
// them.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"img-hist/internal/histogram"
	"img-hist/internal/model"
)

// Canvas draws h onto a fresh style.Width x style.Height raster: background,
// then f-stop gridlines, then one vertical bar per nonzero bin.
func Canvas(h *histogram.Histogram, style model.Style) *image.NRGBA {
	img := imaging.New(style.Width, style.Height, style.Background.NRGBA())

	for _, x := range Gridlines(style) {
		vline(img, x, 0, style.Height, style.LineColor.NRGBA())
	}

	xScale := histogram.XScale(style.Width)
	yScale := histogram.VerticalScale(h, style.Height, style.Multiplier)
	for i, n := range h {
		if n == 0 {
			continue
		}
		c := style.ChannelColor(histogram.ChannelOf(i)).NRGBA()
		x := int(float64(i%histogram.Levels) * xScale)
		bar := int(math.Round(float64(n) * yScale))
		vline(img, x, style.Height-bar, style.Height, c)
	}
	return img
}

// Gridlines returns the x positions of the f-stop markers followed by the
// right and left border lines, in draw order. It is empty when the
// markers are switched off.
func Gridlines(style model.Style) []int {
	if !style.ShowFStopLines {
		return nil
	}
	marker := 0
	if style.FStopLines > 0 {
		marker = style.Width / style.FStopLines
	}
	xs := make([]int, 0, style.FStopLines+2)
	for i := 0; i < style.FStopLines; i++ {
		xs = append(xs, i*marker)
	}
	return append(xs, style.Width-1, 0)
}

// vline paints column x over rows [y0, y1), clipped to the image.
func vline(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	for y := y0; y < y1; y++ {
		img.SetNRGBA(x, y, c)
	}
}
