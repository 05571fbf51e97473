package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/venysssssssssss/data-intake-selic-bc/pkg/logger"
	"github.com/venysssssssssss/data-intake-selic-bc/pkg/redis"
)

func TestNew(t *testing.T) {
	client := New(logger.Nop())
	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.Timeout() != defaultTimeout {
		t.Errorf("Expected timeout=%v, got %v", defaultTimeout, client.Timeout())
	}
}

func TestNewWithTimeout(t *testing.T) {
	if got := NewWithTimeout(logger.Nop(), 5*time.Second).Timeout(); got != 5*time.Second {
		t.Errorf("Expected timeout=5s, got %v", got)
	}

	if got := NewWithTimeout(logger.Nop(), 0).Timeout(); got != defaultTimeout {
		t.Errorf("Expected fallback timeout, got %v", got)
	}
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Expected Accept header, got %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("Expected a User-Agent header")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[{"data":"01/01/2024","valor":"0.043739"}]`))
	}))
	defer server.Close()

	resp, err := New(logger.Nop()).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GET request failed: %v", err)
	}

	body, err := ReadBody(resp)
	if err != nil {
		t.Fatalf("ReadBody failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "0.043739") {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestNoRetryOn5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resp, err := New(logger.Nop()).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Unexpected transport error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", resp.StatusCode)
	}
	if n := atomic.LoadInt32(&attempts); n != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", n)
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if _, err := New(logger.Nop()).Get(context.Background(), url); err == nil {
		t.Error("Expected error for closed server")
	}
}

func TestWithLimiterHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(logger.Nop()).WithLimiter(1)

	// First request consumes the burst
	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := client.Get(ctx, server.URL); err == nil {
		t.Error("Expected limiter wait to fail once the context deadline is shorter than the refill")
	}
}

func TestWithRateLimiterDisabledRedis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	limiter := redis.NewRateLimiter(redis.Disabled(), "test")
	client := New(logger.Nop()).WithRateLimiter(limiter, redis.BCBRateLimit(1))

	for i := 0; i < 3; i++ {
		resp, err := client.Get(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		resp.Body.Close()
	}
}

func TestIsSuccess(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{199, false},
		{200, true},
		{204, true},
		{299, true},
		{301, false},
		{404, false},
		{502, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			if got := IsSuccess(tt.statusCode); got != tt.want {
				t.Errorf("IsSuccess(%d) = %v, want %v", tt.statusCode, got, tt.want)
			}
		})
	}
}
