package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgallion1/edgezone/internal/config"
	"github.com/dgallion1/edgezone/internal/kicad"
	"github.com/dgallion1/edgezone/internal/pipeline"
)

const testAPIKey = "test-key"

const testBoard = `(kicad_pcb
  (version 20240108)
  (generator "pcbnew")
  (gr_line
    (start 100 100)
    (end 140 100)
    (stroke (width 0.1) (type default))
    (layer "Edge.Cuts")
    (uuid "11111111-2222-3333-4444-555555555555")
  )
  (gr_line
    (start 140 100)
    (end 120 130)
    (stroke (width 0.1) (type default))
    (layer "Edge.Cuts")
    (uuid "66666666-7777-8888-9999-aaaaaaaaaaaa")
  )
  (gr_line
    (start 120 130)
    (end 100 100)
    (stroke (width 0.1) (type default))
    (layer "Edge.Cuts")
    (uuid "bbbbbbbb-cccc-dddd-eeee-ffffffffffff")
  )
)
`

func newTestServer() *Server {
	cfg := config.Config{
		EdgezoneAPIKey: testAPIKey,
		MaxUploadBytes: 1 << 20,
		RenderSize:     64,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(kicad.DefaultZoneParams(), log, cfg)
}

func boardRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func TestHealth_NoAuthRequired(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestConvert_RequiresAuth(t *testing.T) {
	s := newTestServer()
	req := boardRequest(t, "/api/convert", "board.kicad_pcb", testBoard)
	req.Header.Del("Authorization")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestConvert_RejectsBadKey(t *testing.T) {
	s := newTestServer()
	req := boardRequest(t, "/api/convert", "board.kicad_pcb", testBoard)
	req.Header.Set("Authorization", "Bearer wrong-key")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestConvert_ReturnsEditedBoard(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, boardRequest(t, "/api/convert", "board.kicad_pcb", testBoard))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Zone-Id") == "" {
		t.Error("expected X-Zone-Id header")
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "board_edited.kicad_pcb") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
	if !strings.Contains(rec.Body.String(), "(zone") {
		t.Error("expected response to contain a zone entity")
	}
}

func TestConvert_UnsupportedExtension(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, boardRequest(t, "/api/convert", "notes.txt", testBoard))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestOutline_ReportsCounts(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, boardRequest(t, "/api/outline", "board.kicad_pcb", testBoard))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res struct {
		pipeline.Result
		Points [][2]float64 `json:"points"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Segments != 3 || res.Chained != 3 || !res.Closed {
		t.Errorf("unexpected report: %+v", res.Result)
	}
	if res.Input != "board.kicad_pcb" {
		t.Errorf("expected input name echoed back, got %q", res.Input)
	}
	if len(res.Points) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(res.Points))
	}
	if res.Points[0] != [2]float64{100, 100} || res.Points[3] != res.Points[0] {
		t.Errorf("expected closed triangle starting at (100,100), got %v", res.Points)
	}
}

func TestOutline_NoOutlineIsUnprocessable(t *testing.T) {
	s := newTestServer()
	board := `(kicad_pcb (version 20240108) (generator "pcbnew"))`
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, boardRequest(t, "/api/outline", "board.kicad_pcb", board))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPreview_ReturnsPNG(t *testing.T) {
	s := newTestServer()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, boardRequest(t, "/api/preview?size=32", "board.kicad_pcb", testBoard))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	body := rec.Body.Bytes()
	if len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Error("expected a PNG payload")
	}
}
