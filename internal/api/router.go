package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"img-hist/internal/config"
	"img-hist/internal/service"
	"img-hist/internal/storage"
	"img-hist/internal/ws"
)

func NewRouter(
	cfg config.Config,
	store *storage.Store,
	hub *ws.Hub,
	histSvc *service.HistogramService,
) http.Handler {
	h := &Handler{
		cfg:     cfg,
		store:   store,
		hub:     hub,
		histSvc: histSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/v1/ws", h.WebSocket)
	mux.HandleFunc("/v1/histogram", h.CreateHistogram)
	mux.HandleFunc("/v1/histograms", h.ListHistograms)
	mux.HandleFunc("/v1/histograms/latest", h.LatestHistogram)
	mux.HandleFunc("/v1/histograms/image", h.HistogramImage)
	mux.HandleFunc("/v1/histograms/bins", h.HistogramBins)

	return limitBody(cfg.MaxUploadSizeBytes, mux)
}

func limitBody(maxSize int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
		next.ServeHTTP(w, r)
	})
}
