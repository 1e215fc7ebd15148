package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/edgezone/internal/kicad"
	"github.com/dgallion1/edgezone/internal/pipeline"
	"github.com/dgallion1/edgezone/internal/render"
)

// readBoardUpload pulls the uploaded board out of a multipart form. It writes
// the error response itself and reports ok=false when the request was
// rejected.
func (s *Server) readBoardUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !kicad.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}

	return filename, data, true
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readBoardUpload(w, r)
	if !ok {
		return
	}

	out, res, err := pipeline.ConvertBytes(data, s.zone, s.log.With("file", filename))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/x-kicad-pcb")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kicad.DefaultOutputPath(filename)))
	w.Header().Set("X-Zone-Id", res.ZoneID)
	w.Write(out)
}

// outlineResponse is the /api/outline payload: the conversion report plus the
// chained vertices in traversal order.
type outlineResponse struct {
	pipeline.Result
	Points [][2]float64 `json:"points"`
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readBoardUpload(w, r)
	if !ok {
		return
	}

	res, chain, err := pipeline.Inspect(data, s.log.With("file", filename))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}
	res.Input = filename

	pts := chain.Points()
	resp := outlineResponse{Result: res, Points: make([][2]float64, len(pts))}
	for i, p := range pts {
		resp.Points[i] = [2]float64{p.X, p.Y}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readBoardUpload(w, r)
	if !ok {
		return
	}

	_, chain, err := pipeline.Inspect(data, s.log.With("file", filename))
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	opts := render.DefaultOptions()
	opts.Size = s.cfg.RenderSize
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Size = n
		}
	}

	w.Header().Set("Content-Type", "image/png")
	if err := render.EncodePNG(w, chain, opts); err != nil {
		s.log.Error("preview encode failed", "file", filename, "error", err)
	}
}

// statusFor maps conversion errors onto HTTP statuses. A board that parses
// but has no usable outline is semantically bad rather than malformed.
func statusFor(err error) int {
	if errors.Is(err, kicad.ErrNoOutline) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
