package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNew(t *testing.T) {
	s := New(
		WithName("boutpkgd"),
		WithVersion("v1.2.3"),
		WithHandler(map[string]http.HandlerFunc{"/v1/resolve": okHandler}),
	)

	if s.config.Name != "boutpkgd" || s.config.Version != "v1.2.3" {
		t.Errorf("unexpected identity %s %s", s.config.Name, s.config.Version)
	}
	if s.httpServer == nil || s.rateLimiter == nil {
		t.Fatal("server not initialized")
	}
	if _, ok := s.config.Handlers["/v1/resolve"]; !ok {
		t.Error("expected /v1/resolve handler")
	}
	if _, ok := s.config.Handlers["/"]; !ok {
		t.Error("expected default root handler")
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "7")

	s := New()
	if s.config.Name != "server" {
		t.Errorf("default name = %s", s.config.Name)
	}
	if s.config.Port != 9191 || s.config.ShutdownTimeout != 7*time.Second {
		t.Errorf("environment not applied: port=%d shutdown=%s", s.config.Port, s.config.ShutdownTimeout)
	}
	if s.httpServer.Addr != ":9191" {
		t.Errorf("addr = %s", s.httpServer.Addr)
	}
}

func TestWithConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Name = "test-server"
	cfg.Port = 9090
	cfg.RateLimit = 500

	s := New(WithConfig(cfg))
	if s.config.Name != "test-server" || s.config.Port != 9090 || s.config.RateLimit != 500 {
		t.Errorf("config not applied: %+v", s.config)
	}
}

func TestHealthAndReady(t *testing.T) {
	s := New()

	w := httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("health: %d %s", w.Code, w.Header().Get("Content-Type"))
	}

	for _, ready := range []bool{false, true} {
		s.setReady(ready)
		w := httptest.NewRecorder()
		s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		want := http.StatusServiceUnavailable
		if ready {
			want = http.StatusOK
		}
		if w.Code != want {
			t.Errorf("ready=%v: status %d, want %d", ready, w.Code, want)
		}
	}

	w = httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health = %d", w.Code)
	}
}

func TestRootHandler(t *testing.T) {
	s := New(WithName("boutpkgd"), WithHandler(map[string]http.HandlerFunc{"/v1/plan": okHandler}))

	w := httptest.NewRecorder()
	s.config.Handlers["/"](w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp RootResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Name != "boutpkgd" || !slices.Contains(resp.Routes, "/v1/plan") || !slices.Contains(resp.Routes, "/metrics") {
		t.Errorf("unexpected root response %+v", resp)
	}

	w = httptest.NewRecorder()
	s.config.Handlers["/"](w, httptest.NewRequest(http.MethodPost, "/", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / = %d", w.Code)
	}
}

func TestCustomRootHandlerNotOverridden(t *testing.T) {
	called := false
	s := New(WithHandler(map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, _ *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		},
	}))

	s.config.Handlers["/"](httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("expected custom root handler to be called")
	}
}

func TestRoutesServeThroughMux(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{"/v1/resolve": okHandler}))
	ts := httptest.NewServer(s.httpServer.Handler)
	defer ts.Close()

	for path, want := range map[string]int{
		"/v1/resolve": http.StatusOK,
		"/health":     http.StatusOK,
		"/metrics":    http.StatusOK,
		"/":           http.StatusOK,
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("GET %s = %d, want %d", path, resp.StatusCode, want)
		}
		if path == "/v1/resolve" && resp.Header.Get("X-Request-Id") == "" {
			t.Error("API routes should pass through the middleware chain")
		}
	}
}

func TestGracefulShutdown(t *testing.T) {
	cfg := NewConfig()
	cfg.Port = 18080
	cfg.ShutdownTimeout = 100 * time.Millisecond
	cfg.Handlers = map[string]http.HandlerFunc{"/test": okHandler}

	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("expected clean shutdown, got error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("shutdown timed out")
	}
	if s.isReady() {
		t.Error("server should not be ready after shutdown")
	}
}
