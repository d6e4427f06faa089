// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docstitch/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.HistoryConfig{DSN: filepath.Join(t.TempDir(), "db", "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(types.HistoryConfig{Driver: "sqlite3", DSN: path})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(types.HistoryConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unknown history driver")
}

func TestOpenPostgresNeedsDSN(t *testing.T) {
	_, err := Open(types.HistoryConfig{Driver: "postgres"})
	assert.ErrorContains(t, err, "needs a DSN")
}

func TestRecordAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := &Run{
		Output: "bundle.pdf",
		Files:  []string{"scan.png", "letter.docx", "report.pdf"},
		Sources: []types.SourcePages{
			{Name: "scan.png", Kind: types.KindImage, Pages: 1},
			{Name: "letter.docx", Kind: types.KindDOCX, Pages: 1},
			{Name: "report.pdf", Kind: types.KindPDF, Pages: 2},
		},
		Pages:    4,
		Status:   StatusDone,
		Duration: 1500 * time.Millisecond,
	}
	require.NoError(t, s.Record(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Output, got.Output)
	assert.Equal(t, run.Files, got.Files)
	assert.Equal(t, run.Sources, got.Sources)
	assert.Equal(t, 4, got.Pages)
	assert.Equal(t, StatusDone, got.Status)
	assert.Empty(t, got.Error)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
}

func TestRecordFailedRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := &Run{
		Output: "bundle.pdf",
		Files:  []string{"notes.txt"},
		Status: StatusFailed,
		Error:  "notes.txt (.txt): unsupported file type",
	}
	require.NoError(t, s.Record(ctx, run))

	got, err := s.Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, run.Error, got.Error)
	assert.Empty(t, got.Sources)
	assert.Zero(t, got.Pages)
}

func TestRecordDuplicateID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := &Run{ID: "fixed", Output: "a.pdf", Status: StatusDone}
	require.NoError(t, s.Record(ctx, run))
	assert.Error(t, s.Record(ctx, &Run{ID: "fixed", Output: "b.pdf", Status: StatusDone}))
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"first.pdf", "second.pdf", "third.pdf"} {
		require.NoError(t, s.Record(ctx, &Run{
			Output:    name,
			Status:    StatusDone,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "third.pdf", runs[0].Output)
	assert.Equal(t, "second.pdf", runs[1].Output)
	assert.Equal(t, "first.pdf", runs[2].Output)

	runs, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestListEmpty(t *testing.T) {
	s := testStore(t)
	runs, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver string
		query  string
		want   string
	}{
		{driverSQLite, "SELECT * FROM runs WHERE id = ? AND status = ?", "SELECT * FROM runs WHERE id = ? AND status = ?"},
		{driverPostgres, "SELECT * FROM runs WHERE id = ? AND status = ?", "SELECT * FROM runs WHERE id = $1 AND status = $2"},
		{driverPostgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.driver+"/"+tt.query, func(t *testing.T) {
			s := &Store{driver: tt.driver}
			assert.Equal(t, tt.want, s.rebind(tt.query))
		})
	}
}

func TestNewRunIDUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
