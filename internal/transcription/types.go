package transcription

// Word is a single recognized word with its own timing.
type Word struct {
	Start float64
	End   float64
	Text  string
}

// Segment is a time-ranged unit of transcribed text. Words is populated only
// when the backend was asked for word-level timestamps.
type Segment struct {
	Start float64
	End   float64
	Text  string
	Words []Word
}

// Options are the per-call settings passed through to a backend.
type Options struct {
	// Language is an ISO 639-1 code, or "" to let the backend detect it.
	Language  string
	ModelSize string
	Device    string
	// Words requests word-level timestamps.
	Words bool
}
