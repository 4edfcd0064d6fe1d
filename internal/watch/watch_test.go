package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Helper function to create a temporary log file
func createTempLogFile(t *testing.T, content string) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return filePath
}

// Helper function to record OnChange invocations (thread-safe)
func recordingOnChange() (func(context.Context, string) error, func() []string) {
	var mu sync.Mutex
	var paths []string

	onChange := func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		paths = append(paths, path)
		return nil
	}

	getPaths := func() []string {
		mu.Lock()
		defer mu.Unlock()
		result := make([]string, len(paths))
		copy(result, paths)
		return result
	}

	return onChange, getPaths
}

func TestIsDerivedOutput(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"app.log", false},
		{"app.log.sanitized", true},
		{"app.log.mappings.json", true},
		{"app.log.20240101-103000.bak", true},
		{"app.log.bak", false},
		{"backup.log", false},
		{"sanitized.log", false},
	}
	for _, tt := range tests {
		if got := IsDerivedOutput(tt.path); got != tt.want {
			t.Errorf("IsDerivedOutput(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherRefusesDerivedOutputs(t *testing.T) {
	w := New(Options{
		Paths:    []string{"app.log.sanitized"},
		OnChange: func(context.Context, string) error { return nil },
	}, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Run(ctx); err == nil {
		t.Fatal("expected error when watching a derived output file")
	}
}

func TestWatcherInvokesOnChangeAfterWrite(t *testing.T) {
	path := createTempLogFile(t, "initial line\n")
	onChange, getPaths := recordingOnChange()

	w := New(Options{
		Paths:    []string{path},
		Debounce: 50 * time.Millisecond,
		OnChange: onChange,
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := f.WriteString("new line\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	deadline := time.After(5 * time.Second)
	for len(getPaths()) == 0 {
		select {
		case <-deadline:
			t.Fatal("OnChange was not invoked after a write")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, p := range getPaths() {
		if p != path {
			t.Errorf("OnChange called with %q, want %q", p, path)
		}
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	path := createTempLogFile(t, "initial line\n")
	onChange, getPaths := recordingOnChange()

	w := New(Options{
		Paths:    []string{path},
		Debounce: 200 * time.Millisecond,
		OnChange: onChange,
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	// A burst of writes inside one debounce window.
	for i := 0; i < 5; i++ {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			t.Fatalf("open for append: %v", err)
		}
		f.WriteString("line\n")
		f.Close()
		time.Sleep(10 * time.Millisecond)
	}

	deadline := time.After(5 * time.Second)
	for len(getPaths()) == 0 {
		select {
		case <-deadline:
			t.Fatal("OnChange was not invoked")
		case <-time.After(20 * time.Millisecond):
		}
	}

	// Let any stragglers settle, then verify the burst coalesced.
	time.Sleep(500 * time.Millisecond)
	if calls := len(getPaths()); calls > 2 {
		t.Errorf("OnChange called %d times for one burst, want 1 or 2", calls)
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	path := createTempLogFile(t, "line\n")

	w := New(Options{
		Paths:    []string{path},
		OnChange: func(context.Context, string) error { return nil },
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
