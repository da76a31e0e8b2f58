package infra

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestHTTPServerRunStopsOnCancel(t *testing.T) {
	cfg := &Config{
		Port:             "0",
		HTTPReadTimeout:  time.Second,
		HTTPWriteTimeout: time.Second,
		HTTPIdleTimeout:  time.Second,
	}
	server := NewHTTPServer(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	if server.Addr() != ":0" {
		t.Fatalf("unexpected addr %q", server.Addr())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx)
	}()

	// Give the listener a moment to bind, then trigger shutdown.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on clean shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestHTTPServerRunReportsBindFailure(t *testing.T) {
	cfg := &Config{Port: "notaport"}
	server := NewHTTPServer(cfg, http.NewServeMux())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := server.Run(ctx); err == nil {
		t.Fatalf("expected bind error")
	}
}
