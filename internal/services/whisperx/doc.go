// Package whisperx runs the WhisperX speech recognizer through uvx.
//
// The service asks WhisperX for JSON output in a throwaway directory, loads the
// segments (with word timings when alignment ran) and removes the directory.
package whisperx
