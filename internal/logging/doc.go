// Package logging builds the slog loggers used across subgen.
//
// Two formats are supported: a console format that folds the file being
// processed, its batch position, and the pipeline stage into a bracketed
// subject, and a JSON format for machine consumption. WithContext tags a
// logger with the job id, stage, and batch correlation id stored in a context.
package logging
