package model

import (
	"image/color"
	"time"
)

type Mode string

const (
	ModeRGB        Mode = "rgb"
	ModeBrightness Mode = "brightness"
	ModeEqualize   Mode = "equalize"
)

// Literal CLI arguments selecting a non-default mode.
const (
	BrightnessArg = "brightness_hist"
	EqualizeArg   = "equalize"
)

// ParseMode maps user input to a Mode. Anything unrecognised is the RGB mode.
func ParseMode(v string) Mode {
	switch v {
	case BrightnessArg, string(ModeBrightness):
		return ModeBrightness
	case EqualizeArg:
		return ModeEqualize
	default:
		return ModeRGB
	}
}

type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Style holds everything the renderer needs to draw a histogram canvas.
type Style struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Multiplier     float64 `json:"multiplier"`
	ShowFStopLines bool    `json:"show_fstop_lines"`
	FStopLines     int     `json:"fstop_lines"`
	Background     RGB     `json:"background"`
	LineColor      RGB     `json:"line_color"`
	Red            RGB     `json:"red"`
	Green          RGB     `json:"green"`
	Blue           RGB     `json:"blue"`
}

func DefaultStyle() Style {
	return Style{
		Width:          256,
		Height:         120,
		Multiplier:     1,
		ShowFStopLines: true,
		FStopLines:     5,
		Background:     RGB{R: 51, G: 51, B: 51},
		LineColor:      RGB{R: 102, G: 102, B: 102},
		Red:            RGB{R: 255, G: 60, B: 60},
		Green:          RGB{R: 51, G: 204, B: 51},
		Blue:           RGB{R: 0, G: 102, B: 255},
	}
}

// ForMode returns the style adjusted for the given mode. Brightness
// histograms are drawn dark on white with a single bar color.
func (s Style) ForMode(mode Mode) Style {
	if mode != ModeBrightness {
		return s
	}
	ink := RGB{R: 51, G: 51, B: 51}
	s.Background = RGB{R: 255, G: 255, B: 255}
	s.Red, s.Green, s.Blue = ink, ink, ink
	return s
}

// ChannelColor returns the bar color for channel 0 (red), 1 (green) or 2 (blue).
func (s Style) ChannelColor(ch int) RGB {
	switch ch {
	case 0:
		return s.Red
	case 1:
		return s.Green
	default:
		return s.Blue
	}
}

type Render struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Mode        Mode   `json:"mode"`
	ImageWidth  int    `json:"image_width"`
	ImageHeight int    `json:"image_height"`
	MaxBin      int    `json:"max_bin"`
	Peaks       [3]int `json:"peaks"`
	Raw         bool   `json:"raw"`
	Output      string `json:"output"`
	Bins        []int  `json:"bins,omitempty"`
	CreatedAt   int64  `json:"created_at_unix_ms"`
}

type StoredState struct {
	Renders           []Render  `json:"renders"`
	LastUpdatedUnixMS int64     `json:"last_updated_unix_ms"`
	CreatedAt         time.Time `json:"created_at"`
}

type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	CreatedAt int64       `json:"created_at_unix_ms"`
}
