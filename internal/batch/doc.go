// Package batch turns every eligible media file in an input directory into a
// subtitle file in an output directory.
//
// Jobs run one at a time in lexicographic file-name order. Each job owns a
// unique temporary WAV that is released on every exit path. A failing job is
// logged with its error kind and recorded in history; the batch then moves on
// unless fail-fast is enabled. Only one batch may write into an output
// directory at a time, enforced with an advisory file lock.
package batch
