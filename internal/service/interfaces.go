// Package service defines the interfaces shared between application layers.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/expense-tracker/internal/model"
)

// SnapshotStore persists whole named state snapshots.
type SnapshotStore interface {
	// LoadSnapshot returns common.ErrNotFound when no snapshot has been saved under name.
	LoadSnapshot(ctx context.Context, name string) ([]byte, error)
	SaveSnapshot(ctx context.Context, name string, data []byte) error
}

// CheckpointInfo describes a saved copy of the snapshot.
type CheckpointInfo struct {
	CreatedAt   time.Time
	Tag         string
	Description string
	Size        int64
}

// Checkpointer manages point-in-time copies of the snapshot.
type Checkpointer interface {
	CreateCheckpoint(ctx context.Context, tag, description string) (*CheckpointInfo, error)
	ListCheckpoints(ctx context.Context) ([]CheckpointInfo, error)
	RestoreCheckpoint(ctx context.Context, tag string) error
	DeleteCheckpoint(ctx context.Context, tag string) error
}

// ExpenseExporter writes expenses to an external destination.
type ExpenseExporter interface {
	ExportExpenses(ctx context.Context, expenses []model.Expense, categories []model.Category) error
}

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Month      *time.Time
	CategoryID string
	Limit      int
}
