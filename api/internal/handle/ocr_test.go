package handle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digit-ocr/api/internal/ocr"
)

type fakeEngine struct {
	name  string
	text  string
	err   error
	calls int
	img   []byte
	opt   ocr.Options
	dl    time.Duration
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Recognize(ctx context.Context, image []byte, opt ocr.Options) (string, error) {
	f.calls++
	f.img = image
	f.opt = opt
	if d, ok := ctx.Deadline(); ok {
		f.dl = time.Until(d)
	}
	return f.text, f.err
}

func newHandle(engs ...*fakeEngine) *Handle {
	reg := ocr.NewEngines()
	for _, e := range engs {
		reg.Register(e)
	}
	return New(reg, ocr.DigitOptions(), time.Minute)
}

func doOCR(t *testing.T, h *Handle, method, body string) (*httptest.ResponseRecorder, OCRResponse) {
	t.Helper()
	req := httptest.NewRequest(method, "/api/ocr", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.OCR(rr, req)

	var out OCRResponse
	if method != http.MethodHead {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	}
	return rr, out
}

func imageBody(payload string) string {
	b, _ := json.Marshal(OCRRequest{ImageData: payload})
	return string(b)
}

func TestOCRSuccessDataURI(t *testing.T) {
	eng := &fakeEngine{name: "tesseract", text: "0192\n"}
	h := newHandle(eng)
	img := []byte("\x89PNG fake")

	rr, out := doOCR(t, h, http.MethodPost, imageBody("data:image/png;base64,"+base64.StdEncoding.EncodeToString(img)))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, OCRResponse{Success: true, Text: "0192"}, out)
	assert.Equal(t, img, eng.img, "only the payload after ;base64, is decoded")
	assert.Equal(t, ocr.Options{Language: "eng", Whitelist: "0123456789"}, eng.opt)
	assert.JSONEq(t, `{"success":true,"text":"0192"}`, rr.Body.String())
}

func TestOCRTruncatesToFourDigits(t *testing.T) {
	h := newHandle(&fakeEngine{name: "tesseract", text: "12 34 56"})
	rr, out := doOCR(t, h, http.MethodPost, imageBody(base64.StdEncoding.EncodeToString([]byte("img"))))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1234", out.Text)
}

func TestOCRMissingImageData(t *testing.T) {
	eng := &fakeEngine{name: "tesseract"}
	h := newHandle(eng)

	for _, body := range []string{`{}`, `{"imageData":""}`, `{"imageData":null}`} {
		rr, _ := doOCR(t, h, http.MethodPost, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.JSONEq(t, `{"success":false,"error":"Missing imageData"}`, rr.Body.String(), body)
	}
	assert.Zero(t, eng.calls)
}

func TestOCRInvalidFormat(t *testing.T) {
	h := newHandle(&fakeEngine{name: "tesseract"})
	rr, out := doOCR(t, h, http.MethodPost, imageBody("data:image/png;base64,"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid imageData format", out.Error)
}

func TestOCRBadJSON(t *testing.T) {
	h := newHandle(&fakeEngine{name: "tesseract"})
	for _, body := range []string{``, `not json`, `{"imageData":42}`} {
		rr, out := doOCR(t, h, http.MethodPost, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.False(t, out.Success)
		assert.Equal(t, "Invalid JSON body", out.Error)
	}
}

func TestOCRInsufficientDigits(t *testing.T) {
	h := newHandle(&fakeEngine{name: "tesseract", text: "4 2"})
	rr, out := doOCR(t, h, http.MethodPost, imageBody(base64.StdEncoding.EncodeToString([]byte("img"))))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, out.Success)
	assert.Equal(t, "OCR failed to recognize 4 digits. Recognized: 42", out.Error)
}

func TestOCREngineError(t *testing.T) {
	h := newHandle(&fakeEngine{name: "tesseract", err: errors.New("leptonica: unsupported image")})
	rr, out := doOCR(t, h, http.MethodPost, imageBody(base64.StdEncoding.EncodeToString([]byte("img"))))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, OCRResponse{Error: "leptonica: unsupported image"}, out)
}

func TestOCRDecodeError(t *testing.T) {
	eng := &fakeEngine{name: "tesseract"}
	h := newHandle(eng)
	rr, out := doOCR(t, h, http.MethodPost, imageBody("data:image/png;base64,%%%%"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error)
	assert.Zero(t, eng.calls)
}

func TestOCRMethodNotAllowed(t *testing.T) {
	eng := &fakeEngine{name: "tesseract", text: "1234"}
	h := newHandle(eng)

	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rr, _ := doOCR(t, h, m, imageBody("AAAA"))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, m)
		assert.JSONEq(t, `{"success":false,"error":"Method Not Allowed"}`, rr.Body.String(), m)
	}

	rr, _ := doOCR(t, h, http.MethodHead, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Zero(t, eng.calls)
}

func TestOCREngineSelection(t *testing.T) {
	tess := &fakeEngine{name: "tesseract", text: "1111"}
	gem := &fakeEngine{name: "gemini", text: "2222"}
	h := newHandle(tess, gem)
	img := base64.StdEncoding.EncodeToString([]byte("img"))

	rr, out := doOCR(t, h, http.MethodPost, `{"imageData":"`+img+`","engine":"gemini"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2222", out.Text)

	rr, out = doOCR(t, h, http.MethodPost, `{"imageData":"`+img+`","engine":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, out.Error, `unknown engine "nope"`)
	assert.Equal(t, 1, gem.calls)
	assert.Zero(t, tess.calls)
}

func TestOCRRequestTimeoutHeader(t *testing.T) {
	eng := &fakeEngine{name: "tesseract", text: "1234"}
	h := newHandle(eng)

	req := httptest.NewRequest(http.MethodPost, "/api/ocr", strings.NewReader(imageBody("AAAA")))
	req.Header.Set("X-Request-Timeout", "5")
	rr := httptest.NewRecorder()
	h.OCR(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.LessOrEqual(t, eng.dl, 5*time.Second)
	assert.Greater(t, eng.dl, 4*time.Second)
}

func TestHealthz(t *testing.T) {
	rr := httptest.NewRecorder()
	newHandle().Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}
