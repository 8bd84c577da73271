package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"digit-ocr/api/internal/ocr"
)

// client is the subset of *gosseract.Client the engine uses.
type client interface {
	SetLanguage(langs ...string) error
	SetWhitelist(whitelist string) error
	SetImageFromBytes(data []byte) error
	Text() (string, error)
	Close() error
}

type Engine struct {
	newClient func() client
}

func New() *Engine {
	return &Engine{newClient: func() client { return gosseract.NewClient() }}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs tesseract with a fresh client per call. gosseract blocks
// in cgo, so the call runs in its own goroutine and is abandoned when ctx
// is done; the client is closed once tesseract returns.
func (e *Engine) Recognize(ctx context.Context, image []byte, opt ocr.Options) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		text, err := e.recognize(image, opt)
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}

func (e *Engine) recognize(image []byte, opt ocr.Options) (string, error) {
	cl := e.newClient()
	defer cl.Close()

	if opt.Language != "" {
		if err := cl.SetLanguage(opt.Language); err != nil {
			return "", fmt.Errorf("tesseract language %q: %w", opt.Language, err)
		}
	}
	if opt.Whitelist != "" {
		if err := cl.SetWhitelist(opt.Whitelist); err != nil {
			return "", fmt.Errorf("tesseract whitelist: %w", err)
		}
	}
	if err := cl.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("tesseract image: %w", err)
	}
	return cl.Text()
}
