package handle

import (
	"encoding/json"
	"net/http"
	"time"

	"digit-ocr/api/internal/ocr"
)

type Handle struct {
	engs    *ocr.Engines
	opt     ocr.Options
	timeout time.Duration
}

func New(engs *ocr.Engines, opt ocr.Options, timeout time.Duration) *Handle {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Handle{
		engs:    engs,
		opt:     opt,
		timeout: timeout,
	}
}

func (h *Handle) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
