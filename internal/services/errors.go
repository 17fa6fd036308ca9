package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolNotFound        = errors.New("tool not found")
	ErrExtractionFailed    = errors.New("extraction failed")
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrWriteFailed         = errors.New("write failed")
	ErrValidation          = errors.New("validation error")
	ErrConfiguration       = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the taxonomy label recorded in logs and job history.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrToolNotFound):
		return "tool_not_found"
	case errors.Is(err, ErrExtractionFailed):
		return "extraction_failed"
	case errors.Is(err, ErrTranscriptionFailed):
		return "transcription_failed"
	case errors.Is(err, ErrWriteFailed):
		return "write_failed"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "unknown"
	}
}

// Hint returns operator-facing remediation text for a classified error.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrToolNotFound):
		return "install ffmpeg or point tools.ffmpeg at the executable"
	case errors.Is(err, ErrExtractionFailed):
		return "input may be corrupt or use an unsupported codec; try playing it with ffmpeg"
	case errors.Is(err, ErrTranscriptionFailed):
		return "check the transcription backend installation and model settings"
	case errors.Is(err, ErrWriteFailed):
		return "check output directory permissions and free disk space"
	case errors.Is(err, ErrConfiguration):
		return "run 'subgen config validate' and fix the reported key"
	default:
		return "check logs for details"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
