package importer

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/httpx"
)

const maxUploadBytes = 32 << 20 // export files run a few MB at most

type HTTPHandler struct {
	svc    *Service
	secret string
}

func NewHTTPHandler(svc *Service, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, secret: secret}
}

// Import handles POST /internal/jobs/import: a multipart CSV upload
// under the "file" field, with an optional "source" label.
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Internal-Secret")
	if h.secret != "" && secret != h.secret {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_UPLOAD", "expected multipart form with a csv file", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_UPLOAD", "missing 'file' field", nil)
		return
	}
	defer file.Close()

	source := strings.TrimSpace(r.FormValue("source"))
	if source == "" {
		source = filepath.Base(header.Filename)
	}

	run, err := h.svc.ImportCSV(r.Context(), source, file)
	if err != nil {
		if errors.Is(err, ErrNoHeader) {
			httpx.JSONError(w, http.StatusBadRequest, "BAD_CSV", err.Error(), nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "IMPORT_FAILED", err.Error(), nil)
		return
	}

	httpx.JSONSuccessWithRequest(r, w, run, nil)
}

// GetRun handles GET /internal/jobs/import/{id}.
func (h *HTTPHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Internal-Secret")
	if h.secret != "" && secret != h.secret {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		id = strings.TrimPrefix(r.URL.Path, "/internal/jobs/import/")
	}
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	run, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "unknown import run", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessWithRequest(r, w, run, nil)
}
