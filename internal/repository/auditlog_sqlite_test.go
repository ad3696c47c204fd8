package repository

import (
	"context"
	"path/filepath"
	"testing"

	"marketplace-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArchive(t *testing.T) *SQLiteAuditArchive {
	t.Helper()
	archive, err := NewSQLiteAuditArchive(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func TestSQLiteAuditArchiveInsertAndList(t *testing.T) {
	archive := newTestArchive(t)
	ctx := context.Background()

	ip := "10.0.0.1"
	entries := []struct {
		stream string
		entry  model.LogEntry
	}{
		{"application", model.LogEntry{TS: "2026-01-01T00:00:00+05:30", Action: "http_request", IP: &ip}},
		{"activity", model.LogEntry{TS: "2026-01-01T00:00:01+05:30", Action: "user_login", Username: "alice"}},
		{"activity", model.LogEntry{TS: "2026-01-01T00:00:02+05:30", Action: "login_failed", Username: "bob"}},
	}
	for _, e := range entries {
		require.NoError(t, archive.Insert(ctx, e.stream, e.entry, []byte(`{"raw":true}`)))
	}

	t.Run("all streams, newest first", func(t *testing.T) {
		got, total, err := archive.List(ctx, "", 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, got, 3)
		assert.Equal(t, "login_failed", got[0].Action)
		assert.Equal(t, "http_request", got[2].Action)
		assert.Equal(t, "10.0.0.1", got[2].IP)
		assert.JSONEq(t, `{"raw":true}`, got[0].Entry)
	})

	t.Run("stream filter", func(t *testing.T) {
		got, total, err := archive.List(ctx, "activity", 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, got, 2)
		for _, e := range got {
			assert.Equal(t, "activity", e.Stream)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		got, total, err := archive.List(ctx, "", 2, 2)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, got, 1)
		assert.Equal(t, "http_request", got[0].Action)
	})
}
