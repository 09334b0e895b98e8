package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"img-hist/internal/config"
	"img-hist/internal/model"
	"img-hist/internal/service"
	"img-hist/internal/storage"
	"img-hist/internal/ws"
)

type Handler struct {
	cfg      config.Config
	store    *storage.Store
	hub      *ws.Hub
	histSvc  *service.HistogramService
	upgrader websocket.Upgrader
}

type apiError struct {
	Error string `json:"error"`
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, errors.New("websocket requires GET"))
		return
	}
	if !websocket.IsWebSocketUpgrade(r) {
		writeErr(w, http.StatusBadRequest, errors.New("websocket upgrade required"))
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: remote=%s uri=%s err=%v", r.RemoteAddr, r.RequestURI, err)
		return
	}
	client := ws.NewClient(h.hub, conn)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

func (h *Handler) CreateHistogram(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSizeBytes); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	mode := model.ParseMode(strings.TrimSpace(r.FormValue("mode")))
	raw := parseBool(r.FormValue("raw"))

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	if err := validateImageUpload(fileHeader); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	b, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	rec, png, err := h.histSvc.Generate(filepath.Base(fileHeader.Filename), b, mode, raw)
	if err != nil {
		if errors.Is(err, service.ErrDecode) {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		log.Printf("render histogram failed: source=%s mode=%s err=%v", fileHeader.Filename, mode, err)
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-ID", rec.ID)
	w.Header().Set("X-Max-Bin", strconv.Itoa(rec.MaxBin))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) ListHistograms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, h.store.ListRenders())
}

func (h *Handler) LatestHistogram(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	rec := h.store.LatestRender()
	if rec == nil {
		writeErr(w, http.StatusNotFound, errors.New("no histogram rendered yet"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) HistogramImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	b, err := h.store.ReadImage(strings.TrimSpace(r.URL.Query().Get("id")))
	if errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(b)
}

func (h *Handler) HistogramBins(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	rec := h.store.GetRender(id)
	if rec == nil {
		writeErr(w, http.StatusNotFound, storage.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": rec.ID, "mode": rec.Mode, "bins": rec.Bins})
}

func validateImageUpload(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return nil
	default:
		return errors.New("unsupported image format")
	}
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, apiError{Error: err.Error()})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
