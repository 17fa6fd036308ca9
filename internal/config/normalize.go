package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBatch()
	c.normalizeTranscription()
	c.normalizeTools()
	c.normalizeLogging()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = defaultInputDir
	}
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = filepath.Join(os.TempDir(), defaultTempDirName)
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ToolsDir) == "" {
		c.Paths.ToolsDir = defaultToolsDir
	}
	if c.Paths.ToolsDir, err = expandPath(c.Paths.ToolsDir); err != nil {
		return fmt.Errorf("paths.tools_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBatch() {
	exts := make([]string, 0, len(c.Batch.InputExtensions))
	seen := make(map[string]struct{}, len(c.Batch.InputExtensions))
	for _, ext := range c.Batch.InputExtensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" || normalized == "." {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	c.Batch.InputExtensions = exts

	// Accept "srt" and ".srt" alike.
	c.Batch.OutputFormat = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Batch.OutputFormat)), ".")
}

func (c *Config) normalizeTranscription() {
	t := &c.Transcription
	t.Backend = strings.ToLower(strings.TrimSpace(t.Backend))
	if t.Backend == "" {
		t.Backend = BackendWhisperX
	}
	t.ModelSize = strings.TrimSpace(t.ModelSize)
	if t.ModelSize == "" {
		t.ModelSize = defaultModelSize
	}
	t.Device = strings.ToLower(strings.TrimSpace(t.Device))
	if t.Device == "" {
		t.Device = defaultDevice
	}
	t.ComputeType = strings.ToLower(strings.TrimSpace(t.ComputeType))
	t.Language = strings.ToLower(strings.TrimSpace(t.Language))
	if t.Language == "" {
		t.Language = defaultLanguage
	}
	t.Granularity = strings.ToLower(strings.TrimSpace(t.Granularity))
	if t.Granularity == "" {
		t.Granularity = defaultGranularity
	}
	t.VADMethod = strings.ToLower(strings.TrimSpace(t.VADMethod))
	if t.VADMethod == "" {
		t.VADMethod = defaultVADMethod
	}
	t.HFToken = strings.TrimSpace(t.HFToken)
	if t.HFToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			t.HFToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			t.HFToken = strings.TrimSpace(value)
		}
	}
	t.OpenAIAPIKey = strings.TrimSpace(t.OpenAIAPIKey)
	if t.OpenAIAPIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			t.OpenAIAPIKey = strings.TrimSpace(value)
		}
	}
	t.OpenAIBaseURL = strings.TrimSpace(t.OpenAIBaseURL)
	t.OpenAIModel = strings.TrimSpace(t.OpenAIModel)
	if t.OpenAIModel == "" {
		t.OpenAIModel = defaultOpenAIModel
	}
}

func (c *Config) normalizeTools() {
	c.Tools.UVX = strings.TrimSpace(c.Tools.UVX)
	if c.Tools.UVX == "" {
		c.Tools.UVX = defaultUVXCommand
	}
	table := make(map[string]string, len(c.Tools.FFmpeg)+2)
	for platform, path := range c.Tools.FFmpeg {
		platform = strings.ToLower(strings.TrimSpace(platform))
		path = strings.TrimSpace(path)
		if platform == "" || path == "" {
			continue
		}
		table[platform] = path
	}
	if _, ok := table[PlatformDefault]; !ok {
		table[PlatformDefault] = defaultFFmpegCommand
	}
	if _, ok := table[PlatformWindows]; !ok {
		table[PlatformWindows] = defaultWindowsFFmpegPath
	}
	c.Tools.FFmpeg = table
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.LogDir, defaultHistoryFilename)
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}
