package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/service"
)

// Checkpoint errors.
var (
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrCheckpointExists   = errors.New("checkpoint already exists")
)

// CheckpointManager saves and restores copies of one named snapshot.
type CheckpointManager struct {
	storage  *SQLiteStorage
	snapshot string
}

// NewCheckpointManager manages checkpoints of the snapshot called name.
func (s *SQLiteStorage) NewCheckpointManager(name string) *CheckpointManager {
	return &CheckpointManager{storage: s, snapshot: name}
}

// CreateCheckpoint copies the current snapshot under tag. An empty tag is
// generated from the current time.
func (cm *CheckpointManager) CreateCheckpoint(ctx context.Context, tag, description string) (*service.CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	now := cm.storage.clock()
	if tag == "" {
		tag = fmt.Sprintf("checkpoint-%s", now.Format("2006-01-02-150405"))
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	data, err := cm.storage.LoadSnapshot(ctx, cm.snapshot)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("nothing to checkpoint: %w", err)
		}
		return nil, err
	}

	if _, err := cm.info(ctx, tag); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointExists, tag)
	} else if !errors.Is(err, ErrCheckpointNotFound) {
		return nil, err
	}

	query, args, err := cm.storage.qb.Insert("checkpoints").
		Columns("tag", "snapshot_name", "description", "data", "size", "created_at").
		Values(tag, cm.snapshot, description, data, len(data), now.UTC()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	if _, err := cm.storage.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint: %w", err)
	}

	slog.Info("Created checkpoint", "tag", tag, "size", len(data))
	return &service.CheckpointInfo{
		Tag:         tag,
		Description: description,
		Size:        int64(len(data)),
		CreatedAt:   now.UTC(),
	}, nil
}

// ListCheckpoints returns every checkpoint, newest first.
func (cm *CheckpointManager) ListCheckpoints(ctx context.Context) ([]service.CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := cm.storage.qb.Select("tag", "description", "size", "created_at").
		From("checkpoints").
		Where(squirrel.Eq{"snapshot_name": cm.snapshot}).
		OrderBy("created_at DESC", "tag").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := cm.storage.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var checkpoints []service.CheckpointInfo
	for rows.Next() {
		var info service.CheckpointInfo
		if err := rows.Scan(&info.Tag, &info.Description, &info.Size, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		checkpoints = append(checkpoints, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkpoints: %w", err)
	}
	return checkpoints, nil
}

// RestoreCheckpoint replaces the current snapshot with the checkpoint's copy.
// The store must be hydrated again to pick up the restored state.
func (cm *CheckpointManager) RestoreCheckpoint(ctx context.Context, tag string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTag(tag); err != nil {
		return err
	}

	query, args, err := cm.storage.qb.Select("data").
		From("checkpoints").
		Where(squirrel.Eq{"tag": tag, "snapshot_name": cm.snapshot}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	var data []byte
	err = cm.storage.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrCheckpointNotFound, tag)
	}
	if err != nil {
		return fmt.Errorf("failed to read checkpoint: %w", err)
	}

	if err := cm.storage.SaveSnapshot(ctx, cm.snapshot, data); err != nil {
		return fmt.Errorf("failed to restore checkpoint: %w", err)
	}
	slog.Info("Restored checkpoint", "tag", tag)
	return nil
}

// DeleteCheckpoint removes a checkpoint.
func (cm *CheckpointManager) DeleteCheckpoint(ctx context.Context, tag string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTag(tag); err != nil {
		return err
	}

	query, args, err := cm.storage.qb.Delete("checkpoints").
		Where(squirrel.Eq{"tag": tag, "snapshot_name": cm.snapshot}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	res, err := cm.storage.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrCheckpointNotFound, tag)
	}
	return nil
}

func (cm *CheckpointManager) info(ctx context.Context, tag string) (*service.CheckpointInfo, error) {
	query, args, err := cm.storage.qb.Select("tag", "description", "size", "created_at").
		From("checkpoints").
		Where(squirrel.Eq{"tag": tag, "snapshot_name": cm.snapshot}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var info service.CheckpointInfo
	err = cm.storage.db.QueryRowContext(ctx, query, args...).
		Scan(&info.Tag, &info.Description, &info.Size, &info.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCheckpointNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	return &info, nil
}
