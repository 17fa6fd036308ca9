// Command subgen converts a folder of audio and video files into SRT subtitle
// files.
//
// Usage:
//
//	subgen run [--input DIR] [--output DIR] [--granularity segment|word] [--fail-fast]
//	subgen watch
//	subgen status
//	subgen history [--limit N]
//	subgen config init|show|validate
//
// Configuration is read from --config, ~/.config/subgen/config.toml or
// ./subgen.toml. A .env file in the working directory is loaded first so API
// keys can live outside the config file.
package main
