package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Veraticus/expense-tracker/internal/common"
)

// LoadSnapshot returns the named snapshot, or common.ErrNotFound.
func (s *SQLiteStorage) LoadSnapshot(ctx context.Context, name string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	query, args, err := s.qb.Select("data").
		From("snapshots").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var data []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", name, err)
	}
	return data, nil
}

// SaveSnapshot writes the named snapshot, replacing any previous version.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, name string, data []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%w: data", ErrNilParameter)
	}

	query, args, err := s.qb.Insert("snapshots").
		Columns("name", "data", "updated_at").
		Values(name, data, s.clock().UTC()).
		Suffix("ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	return nil
}
