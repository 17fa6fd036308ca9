package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"subgen/internal/services"
)

type staticLocator struct {
	path string
	err  error
}

func (l staticLocator) Resolve() (string, error) {
	return l.path, l.err
}

func TestBuildArgs(t *testing.T) {
	got := BuildArgs("in.mp4", "out.wav")
	want := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", "in.mp4",
		"-vn", "-sn", "-dn",
		"-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le",
		"out.wav",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestPrepareAndRelease(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "tmp")
	extractor := NewExtractor(staticLocator{path: "/usr/bin/ffmpeg"}, tempDir)
	var gotName string
	var gotArgs []string
	extractor.WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		dest := args[len(args)-1]
		return nil, os.WriteFile(dest, []byte("RIFF"), 0o644)
	})

	artifact, err := extractor.Prepare(context.Background(), "/media/clip.mp4", "job-1")
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if gotName != "/usr/bin/ffmpeg" {
		t.Fatalf("expected resolved binary, got %q", gotName)
	}
	if want := filepath.Join(tempDir, "subgen-job-1.wav"); artifact.Path() != want || gotArgs[len(gotArgs)-1] != want {
		t.Fatalf("expected artifact at %q, got %q", want, artifact.Path())
	}
	if _, err := os.Stat(artifact.Path()); err != nil {
		t.Fatalf("expected artifact on disk: %v", err)
	}
	if err := artifact.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	if _, err := os.Stat(artifact.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected artifact removed, stat err=%v", err)
	}
	if err := artifact.Release(); err != nil {
		t.Fatalf("second Release returned error: %v", err)
	}
}

func TestReleaseMissingFileIsNotAnError(t *testing.T) {
	artifact := &Artifact{path: filepath.Join(t.TempDir(), "gone.wav")}
	if err := artifact.Release(); err != nil {
		t.Fatalf("expected nil for missing file, got %v", err)
	}
	var nilArtifact *Artifact
	if err := nilArtifact.Release(); err != nil {
		t.Fatalf("expected nil for nil artifact, got %v", err)
	}
}

func TestExtractFailureRemovesPartialOutput(t *testing.T) {
	tempDir := t.TempDir()
	extractor := NewExtractor(staticLocator{path: "ffmpeg"}, tempDir)
	extractor.WithRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		_ = os.WriteFile(args[len(args)-1], []byte("partial"), 0o644)
		return []byte("  Invalid data found when processing input\n"), errors.New("exit status 1")
	})

	artifact, err := extractor.Prepare(context.Background(), "broken.mp4", "job-2")
	if artifact != nil {
		t.Fatalf("expected nil artifact on failure")
	}
	if !errors.Is(err, services.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found when processing input") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
	entries, _ := os.ReadDir(tempDir)
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, found %d", len(entries))
	}
}

func TestExtractToolNotFound(t *testing.T) {
	called := false
	extractor := NewExtractor(staticLocator{err: services.Wrap(services.ErrToolNotFound, "deps", "resolve ffmpeg", "missing", nil)}, t.TempDir())
	extractor.WithRunner(func(context.Context, string, ...string) ([]byte, error) {
		called = true
		return nil, nil
	})
	_, err := extractor.Prepare(context.Background(), "clip.mp4", "job-3")
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
	if called {
		t.Fatal("runner should not be invoked when ffmpeg is missing")
	}

	extractor = NewExtractor(nil, t.TempDir())
	if err := extractor.Extract(context.Background(), "clip.mp4", "out.wav"); !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound without resolver, got %v", err)
	}
}

func TestExtractStartFailureIsToolNotFound(t *testing.T) {
	extractor := NewExtractor(staticLocator{path: filepath.Join(t.TempDir(), "ffmpeg")}, t.TempDir())
	_, err := extractor.Prepare(context.Background(), "clip.mp4", "job-4")
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound when binary cannot start, got %v", err)
	}
}

func TestExtractWithShellStub(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\nprintf 'RIFF' > \"$last\"\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	extractor := NewExtractor(staticLocator{path: stub}, t.TempDir())
	artifact, err := extractor.Prepare(context.Background(), "clip.mp4", "")
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	defer artifact.Release()
	if !strings.HasPrefix(filepath.Base(artifact.Path()), "subgen-") {
		t.Fatalf("unexpected artifact name %q", artifact.Path())
	}
	data, err := os.ReadFile(artifact.Path())
	if err != nil || string(data) != "RIFF" {
		t.Fatalf("unexpected artifact content %q (%v)", data, err)
	}
}

func TestArtifactPathsAreUnique(t *testing.T) {
	extractor := NewExtractor(staticLocator{}, "/tmp/subgen")
	a := extractor.ArtifactPath("")
	b := extractor.ArtifactPath("")
	if a == b {
		t.Fatalf("expected unique artifact paths, got %q twice", a)
	}
}

func TestExtractValidatesPaths(t *testing.T) {
	extractor := NewExtractor(staticLocator{path: "ffmpeg"}, t.TempDir())
	if err := extractor.Extract(context.Background(), "", "out.wav"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
