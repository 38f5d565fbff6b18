package server

import (
	"io"
	"net/http"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Port != 18790 {
		t.Errorf("Expected port 18790, got %d", config.Port)
	}

	if config.ReadTimeout != 10*time.Second {
		t.Errorf("Expected ReadTimeout 10s, got %v", config.ReadTimeout)
	}

	if config.WriteTimeout != 10*time.Second {
		t.Errorf("Expected WriteTimeout 10s, got %v", config.WriteTimeout)
	}

	if config.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected ShutdownTimeout 5s, got %v", config.ShutdownTimeout)
	}
}

func TestNew(t *testing.T) {
	config := DefaultConfig()
	server := New(config)

	if server == nil {
		t.Fatal("Expected server to be created")
	}

	if server.port != config.Port {
		t.Errorf("Expected port %d, got %d", config.Port, server.port)
	}

	if server.running {
		t.Error("Expected server to not be running initially")
	}

	if server.Mux() == nil {
		t.Error("Expected a mux to be available before start")
	}
}

func TestStartStop(t *testing.T) {
	config := DefaultConfig()
	config.Port = 0 // Use random port
	server := New(config)

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}

	if !server.IsRunning() {
		t.Error("Expected server to be running")
	}

	port := server.Port()
	if port == 0 {
		t.Error("Expected non-zero port")
	}

	// Starting again should fail
	if err := server.Start(); err == nil {
		t.Error("Expected error when starting already running server")
	}

	time.Sleep(100 * time.Millisecond)

	if err := server.Stop(); err != nil {
		t.Errorf("Failed to stop server: %v", err)
	}

	if server.IsRunning() {
		t.Error("Expected server to be stopped")
	}

	// Stop again (should succeed, no-op)
	if err := server.Stop(); err != nil {
		t.Errorf("Expected no error when stopping already stopped server: %v", err)
	}
}

func TestURL(t *testing.T) {
	config := DefaultConfig()
	config.Port = 12345
	server := New(config)

	expectedURL := "http://127.0.0.1:12345"
	if server.URL() != expectedURL {
		t.Errorf("Expected URL %s, got %s", expectedURL, server.URL())
	}
}

func TestServerServesFrontend(t *testing.T) {
	config := DefaultConfig()
	config.Port = 0
	server := New(config)

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer server.Stop()

	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(server.URL() + "/")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	if len(body) < 100 {
		t.Errorf("Expected substantial HTML content, got %d bytes", len(body))
	}
}

func TestRouteRegistrationBeforeStart(t *testing.T) {
	config := DefaultConfig()
	config.Port = 0
	server := New(config)

	server.Mux().HandleFunc("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer server.Stop()

	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(server.URL() + "/api/ping")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "pong" {
		t.Errorf("Expected 'pong', got '%s'", string(body))
	}
}

func TestCORSMiddleware(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler := corsMiddleware(testHandler)

	req, err := http.NewRequest("OPTIONS", "http://127.0.0.1:8080/", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Origin", "http://127.0.0.1:8080")

	recorder := &testResponseWriter{
		headers: make(http.Header),
	}

	handler.ServeHTTP(recorder, req)

	if recorder.headers.Get("Access-Control-Allow-Origin") == "" {
		t.Error("Expected Access-Control-Allow-Origin header to be set")
	}
}

func TestCORSMiddlewareRejectsRemoteOrigin(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := corsMiddleware(testHandler)

	req, _ := http.NewRequest("GET", "http://127.0.0.1:8080/", nil)
	req.Header.Set("Origin", "http://evil.example.com")

	recorder := &testResponseWriter{
		headers: make(http.Header),
	}

	handler.ServeHTTP(recorder, req)

	if recorder.headers.Get("Access-Control-Allow-Origin") != "" {
		t.Error("Expected no CORS headers for a non-localhost origin")
	}
}

// testResponseWriter is a simple ResponseWriter for testing
type testResponseWriter struct {
	headers    http.Header
	statusCode int
	body       []byte
}

func (w *testResponseWriter) Header() http.Header {
	return w.headers
}

func (w *testResponseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return len(b), nil
}

func (w *testResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}

func TestMultipleStartStop(t *testing.T) {
	config := DefaultConfig()
	config.Port = 0

	for i := 0; i < 3; i++ {
		server := New(config)

		if err := server.Start(); err != nil {
			t.Fatalf("Iteration %d: Failed to start server: %v", i, err)
		}

		time.Sleep(50 * time.Millisecond)

		if err := server.Stop(); err != nil {
			t.Fatalf("Iteration %d: Failed to stop server: %v", i, err)
		}

		time.Sleep(50 * time.Millisecond)
	}
}

func TestPort(t *testing.T) {
	config := DefaultConfig()
	config.Port = 19999
	server := New(config)

	// Before start, should return configured port
	if server.Port() != 19999 {
		t.Errorf("Expected port 19999 before start, got %d", server.Port())
	}

	config.Port = 0
	server = New(config)

	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer server.Stop()

	port := server.Port()
	if port == 0 {
		t.Error("Expected non-zero port after start")
	}
}
