package enrich

import (
	"net/http"

	"github.com/jukasdrj/bookstrack-backend-sub006/internal/httpx"
)

type HTTPHandler struct {
	svc    *Service
	secret string
}

func NewHTTPHandler(svc *Service, secret string) *HTTPHandler {
	return &HTTPHandler{svc: svc, secret: secret}
}

// Enrich handles POST /internal/jobs/enrich.
func (h *HTTPHandler) Enrich(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Internal-Secret")
	if h.secret != "" && secret != h.secret {
		httpx.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid internal secret", nil)
		return
	}

	res, err := h.svc.Run(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "ENRICH_FAILED", err.Error(), nil)
		return
	}

	httpx.JSONSuccessWithRequest(r, w, res, nil)
}
