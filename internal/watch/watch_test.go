package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"subgen/internal/logging"
)

func TestWatcherHandsOffSettledFiles(t *testing.T) {
	dir := t.TempDir()
	var (
		mu   sync.Mutex
		seen []string
	)
	done := make(chan struct{}, 4)
	w := New(dir, func(name string) bool { return strings.HasSuffix(name, ".mp4") }, func(_ context.Context, path string) {
		mu.Lock()
		seen = append(seen, filepath.Base(path))
		mu.Unlock()
		done <- struct{}{}
	}, logging.NewNop())
	w.SetQuietPeriod(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	target := filepath.Join(dir, "clip.mp4")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte(strings.Repeat("x", i+1)), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
	}
	// Allow any duplicate hand-off to surface.
	time.Sleep(300 * time.Millisecond)
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "clip.mp4" {
		t.Fatalf("expected a single hand-off for clip.mp4, got %v", seen)
	}
}

func TestSettledOrdersAndDropsMissing(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, nil, func(context.Context, string) {}, nil)
	w.SetQuietPeriod(time.Second)
	now := time.Now()
	for _, name := range []string{"b.mp4", "a.mp4"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		w.pending[path] = now.Add(-2 * time.Second)
	}
	w.pending[filepath.Join(dir, "gone.mp4")] = now.Add(-2 * time.Second)
	w.pending[filepath.Join(dir, "fresh.mp4")] = now

	ready := w.settled(now)
	if len(ready) != 2 || filepath.Base(ready[0]) != "a.mp4" || filepath.Base(ready[1]) != "b.mp4" {
		t.Fatalf("unexpected ready list %v", ready)
	}
	if _, ok := w.pending[filepath.Join(dir, "fresh.mp4")]; !ok {
		t.Fatal("expected fresh file to stay pending")
	}
}

func TestRunRequiresHandler(t *testing.T) {
	w := New(t.TempDir(), nil, nil, nil)
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected error without handler")
	}
}
