// Package tasks runs long library operations with real-time progress reporting.
//
// # Bulk Export
//
// [BulkExport] writes many playlists at once:
//
//  1. Each playlist is loaded from an [ExportSource], throttled by a rate limiter
//  2. A pool of workers writes each one with a [formatter.Writer]
//  3. A manifest (export_manifest.json) summarizes successes and failures
//
// A failed playlist never stops the others; it is recorded in the manifest.
//
// # Progress Reporting
//
// Operations take an optional send-only channel of [ProgressUpdate].
// Updates use select with default so a slow reader never blocks the export.
package tasks
