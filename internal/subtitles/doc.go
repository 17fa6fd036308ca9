// Package subtitles turns transcription segments into SRT content.
//
// FormatTimestamp encodes offsets as HH:MM:SS,mmm, Build numbers blocks per
// segment or per word, and Render serializes them. Validate re-reads rendered
// content so the batch runner can flag malformed output before an operator
// loads it into a player.
package subtitles
