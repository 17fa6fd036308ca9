// Package history persists the outcome of every processed file in a small
// SQLite ledger so `subgen history` can show what ran, what failed and why.
//
// The store uses the pure-Go modernc.org/sqlite driver with WAL journaling
// and retries writes that hit SQLITE_BUSY with a short exponential backoff.
package history
