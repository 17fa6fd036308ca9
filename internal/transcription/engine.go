package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"subgen/internal/services"
)

// Engine transcribes a normalized WAV file into ordered segments.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string, opts Options) ([]Segment, error)
}

// Opener constructs an Engine. Expensive setup such as loading a model belongs
// here so it runs once per Handle.
type Opener func(ctx context.Context) (Engine, error)

// Handle owns a lazily opened Engine.
type Handle struct {
	name   string
	open   Opener
	mu     sync.Mutex
	engine Engine
	closed bool
}

// NewHandle returns a handle that opens its engine on the first Transcribe.
func NewHandle(name string, open Opener) *Handle {
	return &Handle{name: name, open: open}
}

// Name reports the configured backend name.
func (h *Handle) Name() string {
	return h.name
}

// Opened reports whether the engine has been initialized.
func (h *Handle) Opened() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine != nil
}

// Transcribe opens the engine if needed and runs it. Calls are serialized.
// Failures carry services.ErrTranscriptionFailed unless ctx was cancelled.
func (h *Handle) Transcribe(ctx context.Context, audioPath string, opts Options) ([]Segment, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, services.Wrap(services.ErrTranscriptionFailed, "transcribe", "use engine", "engine handle closed", nil)
	}
	if h.engine == nil {
		if h.open == nil {
			return nil, services.Wrap(services.ErrConfiguration, "transcribe", "open engine", "no transcription backend configured", nil)
		}
		engine, err := h.open(ctx)
		if err != nil {
			return nil, h.wrap("open engine", err)
		}
		h.engine = engine
	}

	segments, err := h.engine.Transcribe(ctx, audioPath, opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, h.wrap("run engine", err)
	}
	return segments, nil
}

// Close releases the engine if it implements io.Closer. Later Transcribe
// calls fail.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	engine := h.engine
	h.engine = nil
	if closer, ok := engine.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (h *Handle) wrap(operation string, err error) error {
	if errors.Is(err, services.ErrTranscriptionFailed) || errors.Is(err, services.ErrToolNotFound) || errors.Is(err, services.ErrConfiguration) {
		return err
	}
	return services.Wrap(services.ErrTranscriptionFailed, "transcribe", operation, fmt.Sprintf("%s backend failed", h.name), err)
}
