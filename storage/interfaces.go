package storage

import (
	"context"
	"errors"

	"evcharge-pipeline/models"
)

// ErrWriteFailed wraps a failed persistence write. Per-record: the
// orchestrator logs and counts it, the run continues.
var ErrWriteFailed = errors.New("storage write failed")

// RecordFilter selects a subset of persisted locality records.
type RecordFilter struct {
	// ContentGenerated, when set, filters on the content_generated flag.
	ContentGenerated *bool
	RegionCode       string
	Limit            int
}

// RecordStore is the minimal persistence contract the pipeline depends on.
// Upsert is keyed by locality slug: re-running the pipeline updates rows,
// it never duplicates them. MaxConcurrentConnections declares the ceiling
// the orchestrator must honor when sizing batches.
type RecordStore interface {
	Upsert(ctx context.Context, rec *models.LocalityRecord) (string, error)
	FindMany(ctx context.Context, filter RecordFilter) ([]*models.LocalityRecord, error)
	MaxConcurrentConnections() int
	Close() error
}

// NeedsContent is a convenience filter for records awaiting generation,
// ordered largest-population first by the stores.
func NeedsContent() RecordFilter {
	generated := false
	return RecordFilter{ContentGenerated: &generated}
}
