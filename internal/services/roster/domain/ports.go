package domain

import (
	"context"
	"time"
)

// ReaderPort reads contacts
type ReaderPort interface {
	Get(ctx context.Context, id string) (Contact, error)
	// Snapshot returns the full roster as a read-only slice for one ranking call
	Snapshot(ctx context.Context) ([]Contact, error)
}

// WriterPort mutates the roster
type WriterPort interface {
	Upsert(ctx context.Context, in UpsertInput) (Contact, error)
	RecordInteraction(ctx context.Context, contactID string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
