package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"subgen/internal/audio"
	"subgen/internal/backend"
	"subgen/internal/batch"
	"subgen/internal/config"
	"subgen/internal/history"
	"subgen/internal/logging"
	"subgen/internal/preflight"
)

// pipeline bundles a runner with the resources that must be closed after it.
type pipeline struct {
	runner  *batch.Runner
	closers []func() error
	logger  *slog.Logger
}

func (p *pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			p.logger.Warn("cleanup failed", logging.Error(err))
		}
	}
}

func buildPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	if failed := preflight.Failed(preflight.RunAll(ctx, cfg)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, result := range failed {
			details = append(details, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
		return nil, fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
	}

	opts, err := batch.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	extractor := audio.NewExtractor(preflight.FFmpegResolver(cfg), cfg.Paths.TempDir)
	handle := backend.NewHandle(cfg)
	p := &pipeline{logger: logger}
	p.closers = append(p.closers, handle.Close)

	p.runner = batch.NewRunner(opts, extractor, handle, logger)
	if path := cfg.HistoryPath(); path != "" {
		store, err := history.Open(path)
		if err != nil {
			logging.WarnWithContext(logger, "history unavailable", "history_open",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the history database or set history.enabled = false"),
				logging.String(logging.FieldImpact, "job outcomes will not be recorded"),
			)
		} else {
			p.runner.WithRecorder(store)
			p.closers = append(p.closers, store.Close)
		}
	}
	return p, nil
}
