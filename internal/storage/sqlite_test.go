package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "expenses.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestNewSQLiteStorage(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "memory", path: ":memory:"},
		{name: "nested file", path: filepath.Join(t.TempDir(), "a", "b", "expenses.db")},
		{name: "empty path", path: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSQLiteStorage(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmptyString)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.Equal(t, tt.path, s.Path())
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx))

	version, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.LoadSnapshot(ctx, "app-storage")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.SaveSnapshot(ctx, "app-storage", []byte(`{"version":"1.0.0"}`)))
	data, err := s.LoadSnapshot(ctx, "app-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.0.0"}`, string(data))

	require.NoError(t, s.SaveSnapshot(ctx, "app-storage", []byte(`{"version":"2"}`)))
	data, err = s.LoadSnapshot(ctx, "app-storage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"2"}`, string(data))

	_, err = s.LoadSnapshot(ctx, "other")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSnapshotValidation(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.SaveSnapshot(ctx, "", []byte("{}")), ErrEmptyString)
	assert.ErrorIs(t, s.SaveSnapshot(ctx, "x", nil), ErrNilParameter)
	_, err := s.LoadSnapshot(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")
	ctx := context.Background()

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.SaveSnapshot(ctx, "app-storage", []byte("{}")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate(ctx))

	data, err := s.LoadSnapshot(ctx, "app-storage")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestCheckpointLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return base }

	cm := s.NewCheckpointManager("app-storage")

	_, err := cm.CreateCheckpoint(ctx, "before", "")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.SaveSnapshot(ctx, "app-storage", []byte(`{"v":1}`)))
	info, err := cm.CreateCheckpoint(ctx, "before-import", "pre OFX import")
	require.NoError(t, err)
	assert.Equal(t, "before-import", info.Tag)
	assert.Equal(t, int64(len(`{"v":1}`)), info.Size)

	_, err = cm.CreateCheckpoint(ctx, "before-import", "")
	assert.ErrorIs(t, err, ErrCheckpointExists)

	s.clock = func() time.Time { return base.Add(time.Hour) }
	auto, err := cm.CreateCheckpoint(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "checkpoint-2024-03-20-100000", auto.Tag)

	list, err := cm.ListCheckpoints(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, auto.Tag, list[0].Tag)
	assert.Equal(t, "pre OFX import", list[1].Description)

	require.NoError(t, s.SaveSnapshot(ctx, "app-storage", []byte(`{"v":2}`)))
	require.NoError(t, cm.RestoreCheckpoint(ctx, "before-import"))
	data, err := s.LoadSnapshot(ctx, "app-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(data))

	require.NoError(t, cm.DeleteCheckpoint(ctx, "before-import"))
	assert.ErrorIs(t, cm.DeleteCheckpoint(ctx, "before-import"), ErrCheckpointNotFound)
	assert.ErrorIs(t, cm.RestoreCheckpoint(ctx, "before-import"), ErrCheckpointNotFound)
}

func TestValidateTag(t *testing.T) {
	tests := []struct {
		tag     string
		wantErr bool
	}{
		{tag: "monthly-2024-03"},
		{tag: "", wantErr: true},
		{tag: "../escape", wantErr: true},
		{tag: "a/b", wantErr: true},
		{tag: "has space", wantErr: true},
		{tag: strings.Repeat("a", 65), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			err := validateTag(tt.tag)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTag)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
