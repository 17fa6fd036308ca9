package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"subgen/internal/config"
	"subgen/internal/deps"
)

// CheckOpenAI verifies that the OpenAI API is reachable and the key is valid.
// It uses a 15-second timeout and a single attempt.
func CheckOpenAI(ctx context.Context, apiKey, baseURL string) Result {
	const name = "OpenAI API"

	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	clientCfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if base := strings.TrimSpace(baseURL); base != "" {
		clientCfg.BaseURL = strings.TrimRight(base, "/")
	}
	client := openai.NewClientWithConfig(clientCfg)
	if _, err := client.ListModels(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeAPIError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckInputDirectory verifies that the directory exists and is readable.
func CheckInputDirectory(name, path string) Result {
	if result, ok := statDirectory(name, path); !ok {
		return result
	}
	if err := canRead(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if result, ok := statDirectory(name, path); !ok {
		return result
	}
	if err := canReadWrite(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func statDirectory(name, path string) (Result, bool) {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}, false
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}, false
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}, false
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}, false
	}
	return Result{}, true
}

// CheckSystemDeps evaluates the external executables the configured pipeline
// needs, as listed by the CLI status command.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	statuses := []deps.Status{
		deps.CheckResolved("FFmpeg", "Required for audio extraction", FFmpegResolver(cfg)),
	}
	if cfg.Transcription.Backend == config.BackendWhisperX {
		statuses = append(statuses, deps.CheckBinaries([]deps.Requirement{{
			Name:        "uvx",
			Command:     cfg.Tools.UVX,
			Description: "Required for WhisperX-driven transcription",
		}, {
			Name:        "nvidia-smi",
			Command:     "nvidia-smi",
			Description: "Detects CUDA for transcription.device = auto",
			Optional:    true,
		}})...)
	}
	return statuses
}

// FFmpegResolver builds the platform-aware ffmpeg resolver from config.
func FFmpegResolver(cfg *config.Config) *deps.Resolver {
	return deps.NewResolver("ffmpeg", cfg.Tools.FFmpeg, cfg.Paths.ToolsDir)
}

func summarizeAPIError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (API unreachable)"
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return "auth failed (invalid api key)"
		}
		return fmt.Sprintf("API error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	return err.Error()
}
