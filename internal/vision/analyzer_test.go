package vision

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeProvider struct {
	mu     sync.Mutex
	calls  int
	result json.RawMessage
	err    error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Describe(ctx context.Context, p Prompt) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

func (f *fakeProvider) IsAvailable(context.Context) bool { return true }

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewAnalyzer(t *testing.T) {
	provider := &fakeProvider{}
	analyzer := NewAnalyzer(provider, nil, nil)
	if analyzer.logger == nil {
		t.Error("logger should not be nil (default)")
	}
	if analyzer.Provider() != provider {
		t.Error("provider should match")
	}
}

func TestAnalyzer_CachesResults(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	provider := &fakeProvider{result: json.RawMessage(`{"translation":"Hola"}`)}
	analyzer := NewAnalyzer(provider, cache, testLogger())
	p := Prompt{Image: "img", Language: "Spanish", Mode: "translate"}

	for i := 0; i < 3; i++ {
		got, err := analyzer.Analyze(context.Background(), p)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if string(got) != `{"translation":"Hola"}` {
			t.Errorf("unexpected result: %s", got)
		}
	}
	if provider.Calls() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.Calls())
	}

	if _, err := analyzer.Analyze(context.Background(), Prompt{Image: "img", Language: "French", Mode: "translate"}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if provider.Calls() != 2 {
		t.Errorf("different language should miss the cache, got %d calls", provider.Calls())
	}
}

func TestAnalyzer_WithoutCache(t *testing.T) {
	provider := &fakeProvider{result: json.RawMessage(`{}`)}
	analyzer := NewAnalyzer(provider, NewCache(nil, 0), testLogger())

	for i := 0; i < 2; i++ {
		if _, err := analyzer.Analyze(context.Background(), Prompt{Image: "img"}); err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
	}
	if provider.Calls() != 2 {
		t.Errorf("expected 2 provider calls, got %d", provider.Calls())
	}
}

func TestAnalyzer_ProviderError(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	provider := &fakeProvider{err: &MissingKeyError{Env: "LLAMA_API_KEY"}}
	analyzer := NewAnalyzer(provider, cache, testLogger())
	p := Prompt{Image: "img"}

	_, err := analyzer.Analyze(context.Background(), p)
	var mk *MissingKeyError
	if !errors.As(err, &mk) {
		t.Fatalf("expected MissingKeyError, got %v", err)
	}
	if mr.Exists(CacheKey(p)) {
		t.Error("failed results should not be cached")
	}
}

func TestAnalyzer_CacheDownFallsThrough(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	mr.Close()
	provider := &fakeProvider{result: json.RawMessage(`{"ok":true}`)}
	analyzer := NewAnalyzer(provider, cache, testLogger())

	got, err := analyzer.Analyze(context.Background(), Prompt{Image: "img"})
	if err != nil {
		t.Fatalf("Analyze should succeed when cache is down: %v", err)
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("unexpected result: %s", got)
	}
}
