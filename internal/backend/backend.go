// Package backend builds the transcription engine selected in configuration.
package backend

import (
	"context"
	"fmt"

	"subgen/internal/config"
	"subgen/internal/services"
	openaisvc "subgen/internal/services/openai"
	"subgen/internal/services/whisperx"
	"subgen/internal/transcription"
)

// NewHandle returns a lazily opened handle for the configured backend.
func NewHandle(cfg *config.Config) *transcription.Handle {
	name := cfg.Transcription.Backend
	return transcription.NewHandle(name, func(context.Context) (transcription.Engine, error) {
		return Open(cfg)
	})
}

// Open constructs the configured engine immediately.
func Open(cfg *config.Config) (transcription.Engine, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "open engine", "configuration unavailable", nil)
	}
	t := cfg.Transcription
	switch t.Backend {
	case config.BackendWhisperX:
		return whisperx.NewService(whisperx.Config{
			UVX:         cfg.Tools.UVX,
			Model:       t.ModelSize,
			Device:      t.Device,
			ComputeType: t.ComputeType,
			VADMethod:   t.VADMethod,
			HFToken:     t.HFToken,
			WorkDir:     cfg.Paths.TempDir,
		}), nil
	case config.BackendOpenAI:
		svc, err := openaisvc.NewService(openaisvc.Config{
			APIKey:  t.OpenAIAPIKey,
			BaseURL: t.OpenAIBaseURL,
			Model:   t.OpenAIModel,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "open engine",
			fmt.Sprintf("unknown backend %q", t.Backend), nil)
	}
}
