package whisperx

// Config captures runtime settings for WhisperX transcription.
type Config struct {
	// UVX is the uv tool runner used to launch WhisperX.
	UVX string
	// Model is the WhisperX model size (e.g., "base", "large-v3").
	Model string
	// Device is "cpu", "cuda" or "auto".
	Device string
	// ComputeType overrides the ctranslate2 compute type. Empty picks one
	// suited to the device.
	ComputeType string
	// VADMethod selects the voice activity detection method ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
	// WorkDir holds per-call output directories.
	WorkDir string
}

// WhisperX configuration constants.
const (
	DefaultModel       = "base"
	CUDAIndexURL       = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL       = "https://pypi.org/simple"
	BatchSize          = "4"
	OutputFormat       = "json"
	CPUDevice          = "cpu"
	CUDADevice         = "cuda"
	AutoDevice         = "auto"
	CPUComputeType     = "float32"
	CUDAComputeType    = "float16"
	VADMethodPyannote  = "pyannote"
	VADMethodSilero    = "silero"
	UVXCommand         = "uvx"
	nvidiaProbeCommand = "nvidia-smi"
)
