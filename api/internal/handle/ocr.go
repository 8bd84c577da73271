package handle

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"digit-ocr/api/internal/ocr"
)

type OCRRequest struct {
	ImageData string `json:"imageData"`
	Engine    string `json:"engine,omitempty"`
}

type OCRResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handle) OCR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, OCRResponse{Error: "Method Not Allowed"})
		return
	}

	var req OCRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ocr error: bad json: %v", err)
		writeJSON(w, http.StatusBadRequest, OCRResponse{Error: "Invalid JSON body"})
		return
	}

	engine, err := h.engs.GetEngine(req.Engine)
	if err != nil {
		log.Printf("ocr error: %v", err)
		writeJSON(w, http.StatusBadRequest, OCRResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.deadline(r))
	defer cancel()

	text, err := ocr.ReadDigits(ctx, engine, req.ImageData, h.opt)
	if err != nil {
		code := http.StatusInternalServerError
		var re *ocr.RecognitionError
		if errors.As(err, &re) {
			code = re.StatusCode()
			log.Printf("ocr error: engine=%s kind=%s: %v", engine.Name(), re.Kind, err)
		} else {
			log.Printf("ocr error: engine=%s: %v", engine.Name(), err)
		}
		writeJSON(w, code, OCRResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, OCRResponse{Success: true, Text: text})
}

// deadline honours an X-Request-Timeout header (seconds) or a timeoutSec
// query parameter, falling back to the configured timeout.
func (h *Handle) deadline(r *http.Request) time.Duration {
	ts := r.Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = r.URL.Query().Get("timeoutSec")
	}
	if v, _ := strconv.Atoi(ts); v > 0 {
		return time.Duration(v) * time.Second
	}
	return h.timeout
}
