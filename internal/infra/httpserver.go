package infra

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// shutdownGrace is how long in-flight requests get to finish once shutdown
// begins. Upstream edit calls can be slow, so this stays generous.
const shutdownGrace = 15 * time.Second

// HTTPServer runs the API listener with the service's timeout policy and a
// context-driven graceful shutdown.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer builds the listener from config. The write timeout must
// exceed the upstream HTTP timeout or long edits would be cut off mid-reply.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	return &HTTPServer{server: srv}
}

// Addr returns the listen address.
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Run serves until ctx is canceled, then drains in-flight requests within
// the grace period. A clean shutdown returns nil.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
