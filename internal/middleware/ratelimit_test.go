package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitRejectsOverLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/s/filter", nil)
		req.RemoteAddr = "198.51.100.10:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := do(); rr.Code != http.StatusOK {
			t.Fatalf("request %d status %d", i, rr.Code)
		}
	}

	rr := do()
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit status %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("no Retry-After header on rejection")
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("rejection body is not JSON: %v", err)
	}
	if body["error"] != "rate_limited" {
		t.Fatalf("unexpected error code %q", body["error"])
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	handler := RateLimit(1, 20*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/s/edit", nil)
		req.RemoteAddr = "198.51.100.10:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request status %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("second request status %d", code)
	}
	time.Sleep(30 * time.Millisecond)
	if code := do(); code != http.StatusOK {
		t.Fatalf("post-window request status %d", code)
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	handler := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/s/adjust", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := do("198.51.100.10:1234"); code != http.StatusOK {
		t.Fatalf("first client status %d", code)
	}
	if code := do("198.51.100.11:1234"); code != http.StatusOK {
		t.Fatalf("second client throttled by first: %d", code)
	}
	if code := do("198.51.100.10:9999"); code != http.StatusTooManyRequests {
		t.Fatalf("same client not throttled across ports: %d", code)
	}
}

func TestClientIPForRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		remoteAddr string
		want       string
	}{
		{"forwarded single ip", "203.0.113.1", "198.51.100.10:1234", "203.0.113.1"},
		{"forwarded list uses first valid", " 203.0.113.1 , 198.51.100.2 ", "198.51.100.10:1234", "203.0.113.1"},
		{"invalid forwarded falls back", "invalid", "198.51.100.10:1234", "198.51.100.10"},
		{"no forwarded uses remote host", "", "198.51.100.10:1234", "198.51.100.10"},
		{"forwarded ipv6", "2001:db8::1", net.JoinHostPort("2001:db8::2", "443"), "2001:db8::1"},
		{"remote ipv6 fallback", "invalid", net.JoinHostPort("2001:db8::2", "443"), "2001:db8::2"},
		{"remote without port", "invalid", "203.0.113.1", "203.0.113.1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.header != "" {
				req.Header.Set("X-Forwarded-For", tc.header)
			}
			if got := clientIPForRateLimit(req); got != tc.want {
				t.Fatalf("clientIPForRateLimit() = %q, want %q", got, tc.want)
			}
		})
	}
}
