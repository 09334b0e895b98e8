package render

import (
	"image"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	"img-hist/internal/model"
)

// Axes box as fractions of the figure, measured from the bottom-left.
const (
	axesLeft   = 0.125
	axesRight  = 0.9
	axesBottom = 0.11
	axesTop    = 0.88

	tickLen  = 4.0
	maxTicks = 6
)

// Figure places raster inside a width x height plot, scaled to fit the axes
// box with its aspect ratio kept, and labels the axes with the data extent
// [0, style.Width] x [0, style.Height].
func Figure(raster image.Image, style model.Style, width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	left := float64(width) * axesLeft
	right := float64(width) * axesRight
	top := float64(height) * (1 - axesTop)
	bottom := float64(height) * (1 - axesBottom)
	boxW, boxH := right-left, bottom-top

	scale := math.Min(boxW/float64(style.Width), boxH/float64(style.Height))
	dw := maxInt(int(math.Round(float64(style.Width)*scale)), 1)
	dh := maxInt(int(math.Round(float64(style.Height)*scale)), 1)
	x0 := int(math.Round(left + (boxW-float64(dw))/2))
	y0 := int(math.Round(top + (boxH-float64(dh))/2))

	dc.DrawImage(imaging.Resize(raster, dw, dh, imaging.NearestNeighbor), x0, y0)

	fx, fy := float64(x0), float64(y0)
	fw, fh := float64(dw), float64(dh)
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(fx-0.5, fy-0.5, fw+1, fh+1)
	dc.Stroke()

	dc.SetFontFace(basicfont.Face7x13)
	for _, v := range Ticks(style.Width) {
		px := fx + float64(v)*scale
		dc.DrawLine(px, fy+fh, px, fy+fh+tickLen)
		dc.Stroke()
		dc.DrawStringAnchored(strconv.Itoa(v), px, fy+fh+tickLen+2, 0.5, 1)
	}
	for _, v := range Ticks(style.Height) {
		py := fy + fh - float64(v)*scale
		dc.DrawLine(fx-tickLen, py, fx, py)
		dc.Stroke()
		dc.DrawStringAnchored(strconv.Itoa(v), fx-tickLen-3, py, 1, 0.35)
	}
	return dc.Image()
}

// Ticks returns evenly spaced axis values in [0, extent] using a step of
// 1, 2 or 5 times a power of ten.
func Ticks(extent int) []int {
	if extent <= 0 {
		return []int{0}
	}
	raw := float64(extent) / maxTicks
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := 1
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= raw {
			step = maxInt(int(math.Round(m*mag)), 1)
			break
		}
	}
	var out []int
	for v := 0; v <= extent; v += step {
		out = append(out, v)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
