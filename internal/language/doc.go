// Package language normalizes the language hints accepted in configuration
// into the base codes transcription engines expect.
package language
