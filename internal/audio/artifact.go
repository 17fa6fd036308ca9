package audio

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Artifact is a normalized WAV owned by a single job.
type Artifact struct {
	path     string
	once     sync.Once
	released error
}

// Path returns the location of the WAV file.
func (a *Artifact) Path() string {
	return a.path
}

// Release removes the WAV file. It is safe to call more than once and a file
// that is already gone is not an error.
func (a *Artifact) Release() error {
	if a == nil {
		return nil
	}
	a.once.Do(func() {
		a.released = removeIfExists(a.path)
	})
	return a.released
}

// ArtifactPath returns the temp location for a job token. An empty token gets
// a fresh uuid so no two artifacts share a path.
func (e *Extractor) ArtifactPath(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		token = uuid.NewString()
	}
	return filepath.Join(e.tempDir, "subgen-"+token+".wav")
}

// Prepare extracts source into an artifact keyed by token. On error nothing is
// left on disk and the returned artifact is nil.
func (e *Extractor) Prepare(ctx context.Context, source, token string) (*Artifact, error) {
	dest := e.ArtifactPath(token)
	if err := e.Extract(ctx, source, dest); err != nil {
		return nil, err
	}
	return &Artifact{path: dest}, nil
}
