package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subgen/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OPENAI_API_KEY", "")
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.InputDir != filepath.Join(workDir, "input_files") {
		t.Fatalf("unexpected input dir: %q", cfg.Paths.InputDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(workDir, "output_files") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	wantLogs := filepath.Join(tempHome, ".local", "share", "subgen", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.History.Path != filepath.Join(wantLogs, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.Paths.TempDir == "" {
		t.Fatal("expected temp dir default")
	}
	if cfg.Transcription.Backend != config.BackendWhisperX {
		t.Fatalf("expected whisperx backend by default, got %q", cfg.Transcription.Backend)
	}
	if cfg.Transcription.Granularity != "segment" {
		t.Fatalf("expected segment granularity, got %q", cfg.Transcription.Granularity)
	}
	if cfg.OutputExtension() != ".srt" {
		t.Fatalf("unexpected output extension %q", cfg.OutputExtension())
	}
	if cfg.Tools.FFmpeg[config.PlatformDefault] != "ffmpeg" {
		t.Fatalf("unexpected default ffmpeg entry: %v", cfg.Tools.FFmpeg)
	}
	if cfg.Batch.FailFast {
		t.Fatal("expected per-file isolation by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.InputDir, cfg.Paths.OutputDir, cfg.Paths.TempDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPathNormalizesValues(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subgen.toml")

	type payload struct {
		Paths struct {
			InputDir  string `toml:"input_dir"`
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Batch struct {
			InputExtensions []string `toml:"input_extensions"`
			OutputFormat    string   `toml:"output_format"`
		} `toml:"batch"`
		Transcription struct {
			Language    string `toml:"language"`
			Granularity string `toml:"granularity"`
			Device      string `toml:"device"`
		} `toml:"transcription"`
		Tools struct {
			FFmpeg map[string]string `toml:"ffmpeg"`
		} `toml:"tools"`
	}
	custom := payload{}
	custom.Paths.InputDir = filepath.Join(tempDir, "in")
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Batch.InputExtensions = []string{"MP4", ".Mkv", "mp4", " "}
	custom.Batch.OutputFormat = ".SRT"
	custom.Transcription.Language = " English "
	custom.Transcription.Granularity = "WORD"
	custom.Transcription.Device = "CUDA"
	custom.Tools.FFmpeg = map[string]string{"darwin": "/opt/homebrew/bin/ffmpeg"}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if got := strings.Join(cfg.Batch.InputExtensions, ","); got != ".mp4,.mkv" {
		t.Fatalf("unexpected extensions: %q", got)
	}
	if cfg.Batch.OutputFormat != "srt" {
		t.Fatalf("expected output format srt, got %q", cfg.Batch.OutputFormat)
	}
	if cfg.Transcription.Language != "english" {
		t.Fatalf("expected trimmed lower-case language, got %q", cfg.Transcription.Language)
	}
	if cfg.Transcription.Granularity != "word" {
		t.Fatalf("expected word granularity, got %q", cfg.Transcription.Granularity)
	}
	if cfg.Transcription.Device != "cuda" {
		t.Fatalf("expected cuda device, got %q", cfg.Transcription.Device)
	}
	if cfg.Tools.FFmpeg["darwin"] != "/opt/homebrew/bin/ffmpeg" {
		t.Fatalf("expected darwin override, got %v", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.FFmpeg[config.PlatformDefault] == "" || cfg.Tools.FFmpeg[config.PlatformWindows] == "" {
		t.Fatalf("expected default and windows entries to be filled, got %v", cfg.Tools.FFmpeg)
	}
}

func TestEnvFillsMissingCredentials(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subgen.toml")
	contents := "[transcription]\nbackend = \"openai\"\nhf_token = \"file-hf\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("HF_TOKEN", "env-hf")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Transcription.OpenAIAPIKey != "env-openai" {
		t.Errorf("expected OpenAI key from env, got %q", cfg.Transcription.OpenAIAPIKey)
	}
	if cfg.Transcription.HFToken != "file-hf" {
		t.Errorf("expected file token to win over env, got %q", cfg.Transcription.HFToken)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Batch.OutputFormat != "srt" {
		t.Fatalf("expected sample output format srt, got %q", cfg.Batch.OutputFormat)
	}
	if cfg.Tools.FFmpeg["windows"] != "tools/ffmpeg.exe" {
		t.Fatalf("expected windows ffmpeg entry in sample, got %v", cfg.Tools.FFmpeg)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no extensions", func(c *config.Config) { c.Batch.InputExtensions = nil }},
		{"no output format", func(c *config.Config) { c.Batch.OutputFormat = "" }},
		{"separator in output format", func(c *config.Config) { c.Batch.OutputFormat = "a/srt" }},
		{"unknown backend", func(c *config.Config) { c.Transcription.Backend = "vosk" }},
		{"openai without key", func(c *config.Config) {
			c.Transcription.Backend = config.BackendOpenAI
			c.Transcription.OpenAIAPIKey = ""
		}},
		{"bad device", func(c *config.Config) { c.Transcription.Device = "tpu" }},
		{"bad granularity", func(c *config.Config) { c.Transcription.Granularity = "line" }},
		{"bad vad", func(c *config.Config) { c.Transcription.VADMethod = "webrtc" }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
