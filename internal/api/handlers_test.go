package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gorilla/websocket"
	"img-hist/internal/config"
	"img-hist/internal/histogram"
	"img-hist/internal/model"
	"img-hist/internal/service"
	"img-hist/internal/storage"
	"img-hist/internal/ws"
)

func newTestServer(t *testing.T) (*httptest.Server, *ws.Hub, config.Config) {
	t.Helper()
	cfg := config.Config{
		DataPath:           filepath.Join(t.TempDir(), "state.json"),
		MaxUploadSizeBytes: 1 << 20,
		HistoryLimit:       10,
		FigureWidth:        320,
		FigureHeight:       240,
		Style:              model.DefaultStyle(),
	}
	store, err := storage.NewStore(cfg.DataPath, cfg.HistoryLimit)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(NewRouter(cfg, store, hub, service.NewHistogramService(cfg, store, hub)))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, hub, cfg
}

func uploadBody(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var img bytes.Buffer
	if err := imaging.Encode(&img, imaging.New(8, 4, color.NRGBA{R: 200, G: 100, B: 50, A: 255}), imaging.PNG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return uploadRaw(t, filename, img.Bytes(), fields)
}

func uploadRaw(t *testing.T, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()
	return &body, mw.FormDataContentType()
}

func TestCreateHistogramAndQuery(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body, ctype := uploadBody(t, "swatch.png", map[string]string{"raw": "1"})
	resp, err := http.Post(srv.URL+"/v1/histogram", ctype, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if resp.Header.Get("X-Max-Bin") != "32" {
		t.Fatalf("unexpected max bin header %q", resp.Header.Get("X-Max-Bin"))
	}
	out, err := imaging.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 256 || b.Dy() != 120 {
		t.Fatalf("raw render should be the bare canvas, got %v", b)
	}
	id := resp.Header.Get("X-Render-ID")

	var latest model.Render
	getJSON(t, srv.URL+"/v1/histograms/latest", &latest)
	if latest.ID != id || latest.Source != "swatch.png" || latest.Peaks != [3]int{200, 100, 50} {
		t.Fatalf("unexpected latest: %+v", latest)
	}

	var list []model.Render
	getJSON(t, srv.URL+"/v1/histograms", &list)
	if len(list) != 1 || list[0].Bins != nil {
		t.Fatalf("unexpected list: %+v", list)
	}

	var bins struct {
		ID   string `json:"id"`
		Bins []int  `json:"bins"`
	}
	getJSON(t, srv.URL+"/v1/histograms/bins?id="+id, &bins)
	if len(bins.Bins) != histogram.Bins || bins.Bins[200] != 32 || bins.Bins[256+100] != 32 {
		t.Fatalf("unexpected bins payload")
	}

	imgResp, err := http.Get(srv.URL + "/v1/histograms/image?id=" + id)
	if err != nil {
		t.Fatalf("get image: %v", err)
	}
	imgResp.Body.Close()
	if imgResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected image status %d", imgResp.StatusCode)
	}

	missing, err := http.Get(srv.URL + "/v1/histograms/image?id=nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.StatusCode)
	}
}

func TestCreateHistogramRejectsUnsupportedUpload(t *testing.T) {
	srv, _, _ := newTestServer(t)
	body, ctype := uploadBody(t, "notes.txt", nil)
	resp, err := http.Post(srv.URL+"/v1/histogram", ctype, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/v1/histogram")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestCreateHistogramUndecodableImage(t *testing.T) {
	srv, _, _ := newTestServer(t)
	body, ctype := uploadRaw(t, "bad.png", []byte("not an image"), nil)
	resp, err := http.Post(srv.URL+"/v1/histogram", ctype, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateHistogramStorageFailure(t *testing.T) {
	srv, _, cfg := newTestServer(t)
	renders := filepath.Join(filepath.Dir(cfg.DataPath), "renders")
	if err := os.RemoveAll(renders); err != nil {
		t.Fatalf("remove renders dir: %v", err)
	}
	if err := os.WriteFile(renders, []byte("x"), 0o600); err != nil {
		t.Fatalf("replace renders dir: %v", err)
	}

	body, ctype := uploadBody(t, "swatch.png", nil)
	resp, err := http.Post(srv.URL+"/v1/histogram", ctype, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
}

func TestCreateHistogramEqualizeMode(t *testing.T) {
	srv, _, _ := newTestServer(t)
	body, ctype := uploadBody(t, "swatch.png", map[string]string{"mode": "equalize"})
	resp, err := http.Post(srv.URL+"/v1/histogram", ctype, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	var latest model.Render
	getJSON(t, srv.URL+"/v1/histograms/latest", &latest)
	// A single brightness level maps to 255, so the max channel (red) saturates.
	if latest.Mode != model.ModeEqualize || latest.Peaks[0] != 255 {
		t.Fatalf("unexpected equalized render: %+v", latest)
	}
}

func TestLatestHistogramEmpty(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/histograms/latest")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebSocketReceivesRenderEvent(t *testing.T) {
	srv, hub, _ := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	body, ctype := uploadBody(t, "swatch.jpg", map[string]string{"mode": model.BrightnessArg})
	resp, err := http.Post(srv.URL+"/v1/histogram", ctype, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt struct {
		Type    string       `json:"type"`
		Payload model.Render `json:"payload"`
	}
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if evt.Type != "histogram.rendered" || evt.Payload.Mode != model.ModeBrightness {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if evt.Payload.Peaks != [3]int{200, 200, 200} {
		t.Fatalf("brightness peaks should all be the max channel, got %v", evt.Payload.Peaks)
	}
}

func getJSON(t *testing.T, url string, v interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}
