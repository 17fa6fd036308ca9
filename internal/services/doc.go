// Package services defines shared utilities consumed by the batch pipeline and
// the external tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (tool not found, extraction, transcription, write) so the batch runner
//     can report them per job and keep going.
//
// Use these helpers when wiring new adapters so failure reporting stays uniform
// across the pipeline.
package services
