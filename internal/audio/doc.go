// Package audio turns media files into the normalized WAV input transcription
// engines expect: mono, 16 kHz, 16-bit signed little-endian PCM.
//
// Extraction runs an external ffmpeg located through deps.Resolver. Each job
// receives its own Artifact whose Release removes the WAV again, so callers
// defer Release immediately after a successful Prepare.
package audio
