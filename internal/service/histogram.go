package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"img-hist/internal/config"
	"img-hist/internal/model"
	"img-hist/internal/storage"
	"img-hist/internal/ws"
)

// ErrDecode marks uploads that are not a decodable image.
var ErrDecode = errors.New("decode image")

// HistogramService renders uploaded images, records each render in the
// store and announces it on the hub.
type HistogramService struct {
	cfg   config.Config
	store *storage.Store
	hub   *ws.Hub
}

func NewHistogramService(cfg config.Config, store *storage.Store, hub *ws.Hub) *HistogramService {
	return &HistogramService{cfg: cfg, store: store, hub: hub}
}

// Generate decodes imageBytes and returns the render record together with
// the encoded PNG.
func (s *HistogramService) Generate(source string, imageBytes []byte, mode model.Mode, raw bool) (model.Render, []byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return model.Render{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	res, err := Process(img, mode, s.cfg.Style, s.cfg.FigureWidth, s.cfg.FigureHeight)
	if err != nil {
		return model.Render{}, nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, res.Image(raw), imaging.PNG); err != nil {
		return model.Render{}, nil, fmt.Errorf("encode histogram: %w", err)
	}

	rec := newRecord(source, img.Bounds(), mode, raw, &res)
	rec.Output = rec.ID + ".png"
	rec.Bins = res.Histogram[:]
	if err := s.store.AddRender(rec, buf.Bytes()); err != nil {
		return model.Render{}, nil, err
	}

	rec.Bins = nil
	s.hub.Publish("histogram.rendered", rec)
	return rec, buf.Bytes(), nil
}
