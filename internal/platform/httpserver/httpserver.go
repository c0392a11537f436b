package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server. Write timeout leaves room for the slowest
// simulation path (two AI estimator calls).
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
