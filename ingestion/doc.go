// Package ingestion acquires raw member messages and normalizes them into
// documents.
//
// A Source yields raw JSON records: FileSource reads a local messages.json,
// HTTPSource fetches the remote messages API, and ChainSource tries sources
// in order. Unwrap accepts bare arrays and the common wrapper objects.
// The Normalizer maps every record shape onto core.Document with explicit
// defaults, fanning large batches out over a worker pool while keeping
// input order. Watcher triggers a refresh when the local file changes.
package ingestion
