package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subgen/internal/services"
	"subgen/internal/transcription"
)

// Service runs WhisperX through uvx and implements transcription.Engine.
type Service struct {
	cfg           Config
	device        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service. An "auto" device is resolved once
// here by probing for nvidia-smi.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.UVX) == "" {
		cfg.UVX = UVXCommand
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.VADMethod == "" {
		cfg.VADMethod = VADMethodSilero
	}
	return &Service{cfg: cfg, device: resolveDevice(cfg.Device)}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Name identifies the backend in logs and history.
func (s *Service) Name() string {
	return "whisperx"
}

// Transcribe runs WhisperX on audioPath and returns its segments. WhisperX
// writes into a private output directory that is removed before returning.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts transcription.Options) ([]transcription.Segment, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "whisperx", "audio path required", nil)
	}
	workDir := s.cfg.WorkDir
	if workDir == "" {
		workDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("whisperx: ensure work dir: %w", err)
	}
	outputDir, err := os.MkdirTemp(workDir, "whisperx-")
	if err != nil {
		return nil, fmt.Errorf("whisperx: create output dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := s.buildArgs(audioPath, outputDir, opts)
	if err := s.run(ctx, s.cfg.UVX, args...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	segments, err := LoadSegments(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return nil, fmt.Errorf("whisperx: load output: %w", err)
	}
	return convert(segments, opts.Words), nil
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		if _, lookErr := exec.LookPath(name); lookErr != nil {
			return services.Wrap(services.ErrToolNotFound, "transcribe", "run uvx",
				fmt.Sprintf("binary %q not found", name), err)
		}
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir string, opts transcription.Options) []string {
	args := make([]string, 0, 32)

	device := s.device
	if opts.Device != "" && opts.Device != AutoDevice {
		device = opts.Device
	}
	if device == CUDADevice {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	model := s.cfg.Model
	if opts.ModelSize != "" {
		model = opts.ModelSize
	}

	args = append(args,
		"whisperx",
		source,
		"--model", model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--vad_method", s.cfg.VADMethod,
	)
	if s.cfg.VADMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	if !opts.Words {
		args = append(args, "--no_align")
	}

	computeType := s.cfg.ComputeType
	if computeType == "" {
		computeType = CPUComputeType
		if device == CUDADevice {
			computeType = CUDAComputeType
		}
	}
	args = append(args, "--device", device, "--compute_type", computeType)

	return args
}

func resolveDevice(device string) string {
	switch strings.ToLower(strings.TrimSpace(device)) {
	case CUDADevice:
		return CUDADevice
	case AutoDevice:
		if _, err := exec.LookPath(nvidiaProbeCommand); err == nil {
			return CUDADevice
		}
	}
	return CPUDevice
}

// Word represents a single word with timing from WhisperX output. Words that
// could not be aligned carry no timing.
type Word struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

type whisperXPayload struct {
	Segments []Segment `json:"segments"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload.Segments, nil
}

// convert maps WhisperX output onto transcription segments. Unaligned words
// borrow the timing of their neighbours so word-level output stays ordered.
func convert(segments []Segment, words bool) []transcription.Segment {
	out := make([]transcription.Segment, 0, len(segments))
	for _, seg := range segments {
		converted := transcription.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		}
		if words {
			cursor := seg.Start
			for _, w := range seg.Words {
				start, end := cursor, cursor
				if w.Start != nil {
					start = *w.Start
				}
				if w.End != nil {
					end = *w.End
				} else if start > end {
					end = start
				}
				converted.Words = append(converted.Words, transcription.Word{Start: start, End: end, Text: w.Word})
				cursor = end
			}
		}
		out = append(out, converted)
	}
	return out
}
