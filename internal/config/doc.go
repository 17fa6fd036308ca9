// Package config loads, normalizes, and validates subgen configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and HF_TOKEN. The Config type centralizes every knob the batch
// runner and CLI need, including the per-platform ffmpeg lookup table.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, normalized extensions, and clear validation errors.
package config
