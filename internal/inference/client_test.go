package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{})
	if client.baseURL != "http://localhost:5000" {
		t.Errorf("expected default base URL, got %s", client.baseURL)
	}
	if client.httpClient.Timeout != 0 {
		t.Errorf("expected no timeout by default, got %v", client.httpClient.Timeout)
	}

	client = NewClient(Config{BaseURL: "http://example.com/", Timeout: 3 * time.Second})
	if client.baseURL != "http://example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", client.httpClient.Timeout)
	}
}

func TestClient_Process_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/process-image" {
			t.Errorf("expected /process-image, got %s", r.URL.Path)
		}

		var req wireRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Image != "data:image/jpeg;base64,AAAA" {
			t.Errorf("unexpected image %q", req.Image)
		}
		if req.Language != "French" {
			t.Errorf("expected French, got %s", req.Language)
		}
		if req.Context != "translate" {
			t.Errorf("expected context translate, got %s", req.Context)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"result":{"completion_message":{"content":{"text":"` +
			"```json\\n{\\\"translation\\\":\\\"Bonjour\\\",\\\"context\\\":\\\"A greeting\\\"}\\n```" + `"}}}}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	result, err := client.Process(context.Background(), Request{
		Image:    "data:image/jpeg;base64,AAAA",
		Language: "French",
		Mode:     "translate",
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Translation != "Bonjour" || result.Description != "A greeting" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestClient_Process_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success":false,"error":"API request failed: 500"}`))
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL}).Process(context.Background(), Request{Image: "x"})
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.Message != "API request failed: 500" {
		t.Errorf("unexpected message %q", serverErr.Message)
	}
}

func TestClient_Process_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(Config{BaseURL: url}).Process(context.Background(), Request{Image: "x"})
	if !errors.Is(err, ErrConnection) {
		t.Errorf("expected ErrConnection, got %v", err)
	}
}

func TestClient_Process_Canceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := NewClient(Config{BaseURL: server.URL}).Process(ctx, Request{Image: "x"})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Process did not return after cancel")
	}
}
