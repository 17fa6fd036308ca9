package transcription

import (
	"context"
	"errors"
	"sync"
	"testing"

	"subgen/internal/services"
)

type fakeEngine struct {
	mu       sync.Mutex
	calls    int
	inFlight int
	overlap  bool
	closed   bool
	err      error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Transcribe(_ context.Context, audioPath string, _ Options) ([]Segment, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > 1 {
		f.overlap = true
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()
	if f.err != nil {
		return nil, f.err
	}
	return []Segment{{Start: 0, End: 1, Text: audioPath}}, nil
}

func (f *fakeEngine) Close() error {
	f.closed = true
	return nil
}

func TestHandleOpensOnceAndSerializes(t *testing.T) {
	engine := &fakeEngine{}
	opens := 0
	handle := NewHandle("fake", func(context.Context) (Engine, error) {
		opens++
		return engine, nil
	})
	if handle.Opened() {
		t.Fatal("expected handle to open lazily")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := handle.Transcribe(context.Background(), "a.wav", Options{}); err != nil {
				t.Errorf("Transcribe returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	if opens != 1 {
		t.Fatalf("expected engine to open once, opened %d times", opens)
	}
	if engine.calls != 8 {
		t.Fatalf("expected 8 calls, got %d", engine.calls)
	}
	if engine.overlap {
		t.Fatal("expected calls to be serialized")
	}
	if err := handle.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !engine.closed {
		t.Fatal("expected engine to be closed")
	}
	if _, err := handle.Transcribe(context.Background(), "a.wav", Options{}); !errors.Is(err, services.ErrTranscriptionFailed) {
		t.Fatalf("expected failure after close, got %v", err)
	}
}

func TestHandleWrapsFailures(t *testing.T) {
	handle := NewHandle("fake", func(context.Context) (Engine, error) {
		return &fakeEngine{err: errors.New("model exploded")}, nil
	})
	_, err := handle.Transcribe(context.Background(), "a.wav", Options{})
	if !errors.Is(err, services.ErrTranscriptionFailed) {
		t.Fatalf("expected ErrTranscriptionFailed, got %v", err)
	}
	if services.Kind(err) != "transcription_failed" {
		t.Fatalf("unexpected kind %q", services.Kind(err))
	}
}

func TestHandleRetriesOpenAfterFailure(t *testing.T) {
	attempts := 0
	handle := NewHandle("fake", func(context.Context) (Engine, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("download interrupted")
		}
		return &fakeEngine{}, nil
	})
	if _, err := handle.Transcribe(context.Background(), "a.wav", Options{}); !errors.Is(err, services.ErrTranscriptionFailed) {
		t.Fatalf("expected open failure to be wrapped, got %v", err)
	}
	if _, err := handle.Transcribe(context.Background(), "a.wav", Options{}); err != nil {
		t.Fatalf("expected second attempt to succeed, got %v", err)
	}
}

func TestHandleWithoutOpener(t *testing.T) {
	handle := NewHandle("none", nil)
	if _, err := handle.Transcribe(context.Background(), "a.wav", Options{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestHandleCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	handle := NewHandle("fake", func(context.Context) (Engine, error) {
		return &fakeEngine{err: errors.New("killed")}, nil
	})
	if _, err := handle.Transcribe(ctx, "a.wav", Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
