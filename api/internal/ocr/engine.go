package ocr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Options restrict what an engine may return.
type Options struct {
	Language  string // tesseract language code, e.g. "eng"
	Whitelist string // allowed characters, e.g. "0123456789"
}

// DigitOptions is the configuration used for four-digit codes.
func DigitOptions() Options {
	return Options{Language: "eng", Whitelist: "0123456789"}
}

type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte, opt Options) (string, error)
}

// Engines is a name -> Engine registry with a default entry.
type Engines struct {
	mu   sync.RWMutex
	def  string
	byID map[string]Engine
}

func NewEngines() *Engines {
	return &Engines{byID: map[string]Engine{}}
}

// Register adds e under its Name. The first registered engine becomes the
// default until SetDefault is called.
func (e *Engines) Register(eng Engine) {
	e.mu.Lock()
	defer e.mu.Unlock()
	name := strings.ToLower(eng.Name())
	e.byID[name] = eng
	if e.def == "" {
		e.def = name
	}
}

func (e *Engines) SetDefault(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.byID[name]; !ok {
		return fmt.Errorf("unknown engine %q; available: %s", name, strings.Join(e.namesLocked(), ", "))
	}
	e.def = name
	return nil
}

// GetEngine returns the engine registered under name, or the default one
// when name is empty.
func (e *Engines) GetEngine(name string) (Engine, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	e.mu.RLock()
	defer e.mu.RUnlock()
	if name == "" {
		name = e.def
	}
	if eng, ok := e.byID[name]; ok {
		return eng, nil
	}
	if len(e.byID) == 0 {
		return nil, fmt.Errorf("no ocr engines configured")
	}
	return nil, fmt.Errorf("unknown engine %q; available: %s", name, strings.Join(e.namesLocked(), ", "))
}

func (e *Engines) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.namesLocked()
}

func (e *Engines) namesLocked() []string {
	out := make([]string, 0, len(e.byID))
	for k := range e.byID {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
