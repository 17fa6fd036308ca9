package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subgen/internal/services"
)

// Runner executes an external command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Locator resolves the ffmpeg executable. *deps.Resolver satisfies it.
type Locator interface {
	Resolve() (string, error)
}

// Extractor runs ffmpeg to produce normalized WAV files.
type Extractor struct {
	locator Locator
	tempDir string
	runner  Runner
}

// NewExtractor creates an extractor writing artifacts under tempDir.
func NewExtractor(locator Locator, tempDir string) *Extractor {
	return &Extractor{
		locator: locator,
		tempDir: tempDir,
		runner:  execRunner,
	}
}

// WithRunner sets a custom command runner (for testing).
func (e *Extractor) WithRunner(runner Runner) {
	if runner != nil {
		e.runner = runner
	}
}

// BuildArgs returns the ffmpeg arguments that convert source into dest.
func BuildArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

// Extract writes the normalized audio track of source to dest, overwriting an
// existing file. A partially written dest is removed on failure.
func (e *Extractor) Extract(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(dest) == "" {
		return services.Wrap(services.ErrValidation, "extract", "build command", "source and destination required", nil)
	}
	if e.locator == nil {
		return services.Wrap(services.ErrToolNotFound, "extract", "resolve ffmpeg", "no ffmpeg resolver configured", nil)
	}
	binary, err := e.locator.Resolve()
	if err != nil {
		if errors.Is(err, services.ErrToolNotFound) {
			return err
		}
		return services.Wrap(services.ErrToolNotFound, "extract", "resolve ffmpeg", "ffmpeg unavailable", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrExtractionFailed, "extract", "ensure temp dir", "create artifact directory", err)
	}

	output, err := e.runner(ctx, binary, BuildArgs(source, dest)...)
	if err == nil {
		return nil
	}
	_ = removeIfExists(dest)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrToolNotFound, "extract", "run ffmpeg",
			fmt.Sprintf("could not start %s", binary), err)
	}
	detail := strings.TrimSpace(string(output))
	if detail == "" {
		detail = "ffmpeg exited without output"
	}
	return services.Wrap(services.ErrExtractionFailed, "extract", "run ffmpeg", detail, err)
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
