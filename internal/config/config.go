package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"img-hist/internal/model"
)

type Config struct {
	ListenAddr         string
	DataPath           string
	MaxUploadSizeBytes int64
	HistoryLimit       int
	FigureWidth        int
	FigureHeight       int
	Style              model.Style
}

func Load() (Config, error) {
	_ = godotenv.Load()

	def := model.DefaultStyle()
	cfg := Config{
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		DataPath:           getEnv("DATA_PATH", "./data/state.json"),
		MaxUploadSizeBytes: getEnvInt64("MAX_UPLOAD_SIZE_BYTES", 16*1024*1024),
		HistoryLimit:       getEnvInt("HISTORY_LIMIT", 50),
		FigureWidth:        getEnvInt("FIGURE_WIDTH", 640),
		FigureHeight:       getEnvInt("FIGURE_HEIGHT", 480),
		Style: model.Style{
			Width:          getEnvInt("HIST_WIDTH", def.Width),
			Height:         getEnvInt("HIST_HEIGHT", def.Height),
			Multiplier:     getEnvFloat("HIST_MULTIPLIER", def.Multiplier),
			ShowFStopLines: getEnvBool("HIST_SHOW_FSTOP_LINES", def.ShowFStopLines),
			FStopLines:     getEnvInt("HIST_FSTOP_LINES", def.FStopLines),
			Background:     getEnvRGB("HIST_BACKGROUND", def.Background),
			LineColor:      getEnvRGB("HIST_LINE_COLOR", def.LineColor),
			Red:            getEnvRGB("HIST_RED", def.Red),
			Green:          getEnvRGB("HIST_GREEN", def.Green),
			Blue:           getEnvRGB("HIST_BLUE", def.Blue),
		},
	}

	if cfg.Style.Width <= 0 || cfg.Style.Height <= 0 {
		return Config{}, errors.New("histogram width/height must be > 0")
	}
	if cfg.Style.Multiplier <= 0 {
		return Config{}, errors.New("histogram multiplier must be > 0")
	}
	if cfg.Style.FStopLines < 0 {
		return Config{}, errors.New("fstop lines must be >= 0")
	}
	if cfg.FigureWidth <= 0 || cfg.FigureHeight <= 0 {
		return Config{}, errors.New("figure width/height must be > 0")
	}
	if cfg.HistoryLimit <= 0 {
		return Config{}, errors.New("history limit must be > 0")
	}
	if cfg.MaxUploadSizeBytes <= 0 {
		return Config{}, errors.New("max upload size must be > 0")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvRGB(key string, fallback model.RGB) model.RGB {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	c, err := ParseRGB(v)
	if err != nil {
		return fallback
	}
	return c
}

// ParseRGB accepts "r,g,b" with decimal components or "#rrggbb".
func ParseRGB(v string) (model.RGB, error) {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) != 6 {
			return model.RGB{}, errors.New("hex color must be #rrggbb")
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return model.RGB{}, err
		}
		return model.RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
	}
	parts := strings.Split(v, ",")
	if len(parts) != 3 {
		return model.RGB{}, errors.New("color must have three components")
	}
	var out [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return model.RGB{}, err
		}
		out[i] = uint8(n)
	}
	return model.RGB{R: out[0], G: out[1], B: out[2]}, nil
}
