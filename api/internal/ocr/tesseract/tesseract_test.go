package tesseract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digit-ocr/api/internal/ocr"
)

type stubClient struct {
	langs     []string
	whitelist string
	image     []byte
	text      string
	imgErr    error
	block     chan struct{}
	closed    bool
}

func (c *stubClient) SetLanguage(langs ...string) error { c.langs = langs; return nil }
func (c *stubClient) SetWhitelist(w string) error       { c.whitelist = w; return nil }
func (c *stubClient) SetImageFromBytes(b []byte) error  { c.image = b; return c.imgErr }
func (c *stubClient) Close() error                      { c.closed = true; return nil }

func (c *stubClient) Text() (string, error) {
	if c.block != nil {
		<-c.block
	}
	return c.text, nil
}

func newStubEngine(c *stubClient) *Engine {
	return &Engine{newClient: func() client { return c }}
}

func TestRecognizePassesOptions(t *testing.T) {
	c := &stubClient{text: "0192\n"}
	e := newStubEngine(c)

	got, err := e.Recognize(context.Background(), []byte("png"), ocr.DigitOptions())
	require.NoError(t, err)
	assert.Equal(t, "0192\n", got)
	assert.Equal(t, []string{"eng"}, c.langs)
	assert.Equal(t, "0123456789", c.whitelist)
	assert.Equal(t, []byte("png"), c.image)
	assert.True(t, c.closed)
	assert.Equal(t, "tesseract", e.Name())
}

func TestRecognizeImageError(t *testing.T) {
	c := &stubClient{imgErr: errors.New("Image too small")}
	e := newStubEngine(c)

	_, err := e.Recognize(context.Background(), []byte("x"), ocr.DigitOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Image too small")
	assert.True(t, c.closed)
}

func TestRecognizeContextDone(t *testing.T) {
	c := &stubClient{text: "1234", block: make(chan struct{})}
	defer close(c.block)
	e := newStubEngine(c)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := e.Recognize(ctx, []byte("x"), ocr.DigitOptions())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
