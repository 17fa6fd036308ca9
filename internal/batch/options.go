package batch

import (
	"fmt"
	"strings"

	"subgen/internal/config"
	"subgen/internal/language"
	"subgen/internal/subtitles"
)

// Options controls discovery and per-job behavior.
type Options struct {
	InputDir     string
	OutputDir    string
	Extensions   []string
	OutputExt    string
	Granularity  subtitles.Granularity
	Language     string
	ModelSize    string
	Device       string
	FailFast     bool
	SkipExisting bool
}

// OptionsFromConfig derives runner options from a validated config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return Options{}, fmt.Errorf("config required")
	}
	granularity, err := subtitles.ParseGranularity(cfg.Transcription.Granularity)
	if err != nil {
		return Options{}, fmt.Errorf("transcription.granularity: %w", err)
	}
	lang, err := language.Normalize(cfg.Transcription.Language)
	if err != nil {
		return Options{}, fmt.Errorf("transcription.language: %w", err)
	}
	return Options{
		InputDir:     cfg.Paths.InputDir,
		OutputDir:    cfg.Paths.OutputDir,
		Extensions:   cfg.Batch.InputExtensions,
		OutputExt:    cfg.OutputExtension(),
		Granularity:  granularity,
		Language:     lang,
		ModelSize:    cfg.Transcription.ModelSize,
		Device:       cfg.Transcription.Device,
		FailFast:     cfg.Batch.FailFast,
		SkipExisting: cfg.Batch.SkipExisting,
	}, nil
}

func (o Options) outputExt() string {
	ext := strings.TrimSpace(o.OutputExt)
	if ext == "" {
		return ".srt"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Accepts reports whether a file name carries one of the input extensions.
func (o Options) Accepts(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range o.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(lower, ext) && len(lower) > len(ext) {
			return true
		}
	}
	return false
}
