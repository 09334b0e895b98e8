// Package histogram computes 8-bit per-channel intensity histograms.
package histogram

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

const (
	Levels   = 256
	Channels = 3
	Bins     = Levels * Channels
)

// Histogram holds the red, green and blue counts back to back: index
// c*Levels+v is the number of pixels whose channel c has value v.
type Histogram [Bins]int

// Compute counts every pixel of img. Alpha is ignored.
func Compute(img image.Image) Histogram {
	var h Histogram
	if img == nil {
		return h
	}
	src := imaging.Clone(img)
	w, ht := src.Bounds().Dx(), src.Bounds().Dy()
	for y := 0; y < ht; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			h[row[i]]++
			h[Levels+int(row[i+1])]++
			h[2*Levels+int(row[i+2])]++
		}
	}
	return h
}

// Brighten replaces every pixel with its largest channel value on all
// three channels, keeping alpha.
func Brighten(img image.Image) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		m := maxChannel(c.R, c.G, c.B)
		return color.NRGBA{R: m, G: m, B: m, A: c.A}
	})
}

func (h *Histogram) Bin(ch int, v uint8) int {
	return h[ch*Levels+int(v)]
}

func (h *Histogram) Channel(ch int) []int {
	out := make([]int, Levels)
	copy(out, h[ch*Levels:(ch+1)*Levels])
	return out
}

func (h *Histogram) Max() int {
	m := 0
	for _, n := range h {
		if n > m {
			m = n
		}
	}
	return m
}

// Total is the number of pixels counted in channel ch.
func (h *Histogram) Total(ch int) int {
	n := 0
	for _, c := range h[ch*Levels : (ch+1)*Levels] {
		n += c
	}
	return n
}

// Peak returns the intensity with the highest count in channel ch. Ties go
// to the darker value; an empty channel reports 0.
func (h *Histogram) Peak(ch int) int {
	best, bestN := 0, 0
	for v, n := range h[ch*Levels : (ch+1)*Levels] {
		if n > bestN {
			best, bestN = v, n
		}
	}
	return best
}

// ChannelOf maps a flat bin index to its channel.
func ChannelOf(index int) int {
	switch {
	case index > 2*Levels-1:
		return 2
	case index > Levels-1:
		return 1
	default:
		return 0
	}
}

// XScale is the horizontal pixels per intensity level for a canvas of
// the given width.
func XScale(width int) float64 {
	return float64(width) / Levels
}

// VerticalScale maps counts to pixels so that the tallest bin spans
// height*multiplier. An empty histogram scales to 0.
func VerticalScale(h *Histogram, height int, multiplier float64) float64 {
	m := h.Max()
	if m == 0 {
		return 0
	}
	return float64(height) * multiplier / float64(m)
}

// Equalize spreads the brightness (max channel) distribution of img over
// the full 0..255 range. Each pixel keeps its hue and saturation: its
// channels are scaled by newV/V. Images whose pixels are all black are
// returned unchanged.
func Equalize(img image.Image) *image.NRGBA {
	var cdf [Levels]int
	src := imaging.Clone(img)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		cdf[maxChannel(src.Pix[i], src.Pix[i+1], src.Pix[i+2])]++
	}
	for v := 1; v < Levels; v++ {
		cdf[v] += cdf[v-1]
	}
	total := cdf[Levels-1]
	if total == cdf[0] {
		return src
	}

	var lut [Levels]uint8
	for v := range lut {
		lut[v] = uint8((Levels - 1) * (cdf[v] - cdf[0]) / (total - cdf[0]))
	}
	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		m := maxChannel(c.R, c.G, c.B)
		if m == 0 {
			return c
		}
		f := float64(lut[m]) / float64(m)
		return color.NRGBA{R: scaleChannel(c.R, f), G: scaleChannel(c.G, f), B: scaleChannel(c.B, f), A: c.A}
	})
}

func maxChannel(r, g, b uint8) uint8 {
	m := r
	if g > m {
		m = g
	}
	if b > m {
		m = b
	}
	return m
}

func scaleChannel(c uint8, f float64) uint8 {
	v := math.Round(float64(c) * f)
	if v > 255 {
		return 255
	}
	return uint8(v)
}
