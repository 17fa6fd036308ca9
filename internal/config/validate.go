package config

import (
	"errors"
	"fmt"
	"strings"

	"subgen/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if len(c.Batch.InputExtensions) == 0 {
		return errors.New("batch.input_extensions must list at least one extension")
	}
	format := strings.TrimSpace(c.Batch.OutputFormat)
	if format == "" {
		return errors.New("batch.output_format must be set")
	}
	if strings.ContainsAny(format, `/\`) {
		return fmt.Errorf("batch.output_format %q must not contain path separators", format)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	switch t.Backend {
	case BackendWhisperX:
		if t.VADMethod != "silero" && t.VADMethod != "pyannote" {
			return fmt.Errorf("transcription.vad_method %q must be silero or pyannote", t.VADMethod)
		}
	case BackendOpenAI:
		if t.OpenAIAPIKey == "" {
			return errors.New("transcription.openai_api_key must be set when transcription.backend is openai (or set OPENAI_API_KEY)")
		}
	default:
		return fmt.Errorf("transcription.backend %q must be whisperx or openai", t.Backend)
	}
	switch t.Device {
	case "cpu", "cuda", "auto":
	default:
		return fmt.Errorf("transcription.device %q must be cpu, cuda, or auto", t.Device)
	}
	switch t.Granularity {
	case "segment", "word":
	default:
		return fmt.Errorf("transcription.granularity %q must be segment or word", t.Granularity)
	}
	if _, err := language.Normalize(t.Language); err != nil {
		return fmt.Errorf("transcription.language: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	return nil
}
