package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subgen/internal/services"
	"subgen/internal/transcription"
)

const verboseResponse = `{
  "task": "transcribe",
  "language": "english",
  "duration": 4.0,
  "text": "Hello world. Bye now.",
  "segments": [
    {"id": 0, "start": 0.0, "end": 2.0, "text": " Hello world."},
    {"id": 1, "start": 2.0, "end": 4.0, "text": " Bye now."}
  ],
  "words": [
    {"word": "Hello", "start": 0.1, "end": 0.6},
    {"word": "world.", "start": 0.7, "end": 1.9},
    {"word": "Bye", "start": 2.0, "end": 2.5},
    {"word": "now.", "start": 2.6, "end": 3.8}
  ]
}`

func newTestServer(t *testing.T, body string, status int, seen *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			*seen = string(raw)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subgen-job.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestTranscribeAttachesWords(t *testing.T) {
	var request string
	server := newTestServer(t, verboseResponse, http.StatusOK, &request)
	svc, err := NewService(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1/"})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	segments, err := svc.Transcribe(context.Background(), writeAudio(t), transcription.Options{Language: "en", Words: true})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "Hello world." || len(segments[0].Words) != 2 {
		t.Fatalf("unexpected first segment %+v", segments[0])
	}
	if len(segments[1].Words) != 2 || segments[1].Words[0].Text != "Bye" {
		t.Fatalf("unexpected second segment words %+v", segments[1].Words)
	}
	if !strings.Contains(request, "verbose_json") || !strings.Contains(request, "whisper-1") {
		t.Fatalf("expected verbose_json request for whisper-1, got %q", request)
	}
}

func TestTranscribeSegmentModeSkipsWords(t *testing.T) {
	server := newTestServer(t, verboseResponse, http.StatusOK, nil)
	svc, err := NewService(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1", Model: "whisper-large"})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	segments, err := svc.Transcribe(context.Background(), writeAudio(t), transcription.Options{})
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	for _, seg := range segments {
		if len(seg.Words) != 0 {
			t.Fatalf("expected no words, got %+v", seg.Words)
		}
	}
}

func TestTranscribeAPIError(t *testing.T) {
	server := newTestServer(t, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, http.StatusUnauthorized, nil)
	svc, err := NewService(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	if _, err := svc.Transcribe(context.Background(), writeAudio(t), transcription.Options{}); err == nil {
		t.Fatal("expected error for unauthorized response")
	}
}

func TestNewServiceRequiresKey(t *testing.T) {
	if _, err := NewService(Config{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
