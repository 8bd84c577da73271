package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig is the header set stamped by CORS.
type CORSConfig struct {
	AllowOrigin  string
	AllowMethods string
	AllowHeaders []string
	MaxAge       int // seconds
}

// DefaultCORSConfig allows any origin to call the API with the common
// browser and client headers.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigin:  "*",
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-CSRF-Token",
			"X-Requested-With",
			"Accept",
			"Accept-Version",
			"Content-Length",
			"Content-MD5",
			"Date",
			"X-Api-Version",
		},
		MaxAge: 86400,
	}
}

// Merge fills the zero fields of c from def. A negative MaxAge counts as unset.
func (c CORSConfig) Merge(def CORSConfig) CORSConfig {
	if strings.TrimSpace(c.AllowOrigin) == "" {
		c.AllowOrigin = def.AllowOrigin
	}
	if strings.TrimSpace(c.AllowMethods) == "" {
		c.AllowMethods = def.AllowMethods
	}
	if len(c.AllowHeaders) == 0 {
		c.AllowHeaders = def.AllowHeaders
	}
	if c.MaxAge < 0 {
		c.MaxAge = def.MaxAge
	}
	return c
}

func (c CORSConfig) apply(h http.Header) {
	h.Set("Access-Control-Allow-Origin", c.AllowOrigin)
	h.Set("Access-Control-Allow-Methods", c.AllowMethods)
	h.Set("Access-Control-Allow-Headers", strings.Join(c.AllowHeaders, ", "))
	h.Set("Access-Control-Max-Age", strconv.Itoa(c.MaxAge))
}

// CORS answers preflight requests with 204 and stamps the header set onto
// every other response. Mount it on the route prefix that needs it.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	cfg = cfg.Merge(DefaultCORSConfig())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg.apply(w.Header())

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
