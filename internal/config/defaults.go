package config

const (
	defaultConfigPath        = "~/.config/subgen/config.toml"
	defaultInputDir          = "input_files"
	defaultOutputDir         = "output_files"
	defaultLogDir            = "~/.local/share/subgen/logs"
	defaultToolsDir          = "."
	defaultTempDirName       = "subgen"
	defaultOutputFormat      = "srt"
	defaultModelSize         = "base"
	defaultDevice            = "cpu"
	defaultLanguage          = "auto"
	defaultGranularity       = "segment"
	defaultVADMethod         = "silero"
	defaultOpenAIModel       = "whisper-1"
	defaultUVXCommand        = "uvx"
	defaultFFmpegCommand     = "ffmpeg"
	defaultWindowsFFmpegPath = "tools/ffmpeg.exe"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultHistoryFilename   = "history.db"
)

// Supported transcription backends.
const (
	BackendWhisperX = "whisperx"
	BackendOpenAI   = "openai"
)

// Platform keys recognized in [tools.ffmpeg].
const (
	PlatformDefault = "default"
	PlatformWindows = "windows"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			ToolsDir:  defaultToolsDir,
		},
		Batch: Batch{
			InputExtensions: []string{".mp4", ".mkv", ".mov", ".avi", ".webm", ".mp3", ".wav", ".m4a", ".flac", ".ogg"},
			OutputFormat:    defaultOutputFormat,
		},
		Transcription: Transcription{
			Backend:     BackendWhisperX,
			ModelSize:   defaultModelSize,
			Device:      defaultDevice,
			Language:    defaultLanguage,
			Granularity: defaultGranularity,
			VADMethod:   defaultVADMethod,
			OpenAIModel: defaultOpenAIModel,
		},
		Tools: Tools{
			UVX: defaultUVXCommand,
			FFmpeg: map[string]string{
				PlatformWindows: defaultWindowsFFmpegPath,
				PlatformDefault: defaultFFmpegCommand,
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}
