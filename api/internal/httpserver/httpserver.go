package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"digit-ocr/api/internal/handle"
	"digit-ocr/api/internal/middleware"
)

// NewRouter mounts the API under /api behind the CORS interceptor.
// /healthz stays outside of it.
func NewRouter(h *handle.Handle, cors middleware.CORSConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", h.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(cors))
		r.HandleFunc("/ocr", h.OCR)
	})
	return r
}

// StartHTTP serves handler on addr until ctx is cancelled, then shuts the
// server down gracefully.
func StartHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	log.Printf("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
