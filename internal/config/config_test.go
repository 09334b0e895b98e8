package config

import (
	"testing"

	"img-hist/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Style != model.DefaultStyle() {
		t.Fatalf("unexpected style: %+v", cfg.Style)
	}
	if cfg.FigureWidth != 640 || cfg.FigureHeight != 480 {
		t.Fatalf("unexpected figure size: %dx%d", cfg.FigureWidth, cfg.FigureHeight)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HIST_WIDTH", "512")
	t.Setenv("HIST_MULTIPLIER", "2.5")
	t.Setenv("HIST_SHOW_FSTOP_LINES", "false")
	t.Setenv("HIST_RED", "#ff0000")
	t.Setenv("HIST_BLUE", "1, 2, 3")
	t.Setenv("HIST_GREEN", "not-a-color")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Style.Width != 512 || cfg.Style.Multiplier != 2.5 || cfg.Style.ShowFStopLines {
		t.Fatalf("overrides not applied: %+v", cfg.Style)
	}
	if cfg.Style.Red != (model.RGB{R: 255}) {
		t.Fatalf("unexpected red: %+v", cfg.Style.Red)
	}
	if cfg.Style.Blue != (model.RGB{R: 1, G: 2, B: 3}) {
		t.Fatalf("unexpected blue: %+v", cfg.Style.Blue)
	}
	if cfg.Style.Green != model.DefaultStyle().Green {
		t.Fatalf("invalid color should fall back, got %+v", cfg.Style.Green)
	}
}

func TestLoadRejectsInvalidSize(t *testing.T) {
	t.Setenv("HIST_HEIGHT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero height")
	}
}

func TestParseRGB(t *testing.T) {
	if _, err := ParseRGB("256,0,0"); err == nil {
		t.Fatalf("expected overflow error")
	}
	if _, err := ParseRGB("#fff"); err == nil {
		t.Fatalf("expected short hex error")
	}
	c, err := ParseRGB("#336699")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c != (model.RGB{R: 0x33, G: 0x66, B: 0x99}) {
		t.Fatalf("unexpected color: %+v", c)
	}
}
