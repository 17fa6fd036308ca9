// Package transcription defines the boundary to speech recognition backends.
//
// Backends implement Engine. Handle wraps a backend so it is opened lazily on
// first use, shared by every job in the process and serialized with a mutex.
package transcription
