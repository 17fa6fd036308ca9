package openai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"subgen/internal/services"
	"subgen/internal/transcription"
)

// Config holds the API settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type transcriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Service implements transcription.Engine against the OpenAI audio API.
type Service struct {
	client transcriber
	model  string
}

// NewService builds a client for cfg. An empty model selects whisper-1.
func NewService(cfg Config) (*Service, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "openai client", "api key required", nil)
	}
	clientCfg := openai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = strings.TrimRight(base, "/")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.Whisper1
	}
	return &Service{client: openai.NewClientWithConfig(clientCfg), model: model}, nil
}

// Name identifies the backend in logs and history.
func (s *Service) Name() string {
	return "openai"
}

// Transcribe uploads audioPath and converts the verbose JSON response.
// ModelSize and Device options do not apply to the hosted API.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts transcription.Options) ([]transcription.Segment, error) {
	req := openai.AudioRequest{
		Model:    s.model,
		FilePath: audioPath,
		Language: opts.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		},
	}
	if opts.Words {
		req.TimestampGranularities = append(req.TimestampGranularities, openai.TranscriptionTimestampGranularityWord)
	}
	resp, err := s.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}
	return convert(resp, opts.Words), nil
}

func convert(resp openai.AudioResponse, words bool) []transcription.Segment {
	segments := make([]transcription.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, transcription.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	if len(segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		segments = append(segments, transcription.Segment{Start: 0, End: resp.Duration, Text: strings.TrimSpace(resp.Text)})
	}
	if !words || len(segments) == 0 {
		return segments
	}

	// Words arrive as one flat, time-ordered list. A word belongs to the last
	// segment that starts at or before it.
	idx := 0
	for _, w := range resp.Words {
		for idx+1 < len(segments) && w.Start >= segments[idx+1].Start {
			idx++
		}
		segments[idx].Words = append(segments[idx].Words, transcription.Word{
			Start: w.Start,
			End:   w.End,
			Text:  w.Word,
		})
	}
	return segments
}
