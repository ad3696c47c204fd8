package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marketplace-api/internal/audit"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store   *repository.Store
	logger  *audit.Logger
	logsDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logsDir := t.TempDir()
	return &testEnv{
		store:   repository.NewStore(t.TempDir()),
		logger:  audit.NewLogger(logsDir, nil, nil),
		logsDir: logsDir,
	}
}

// activityEntries returns everything written to the activity stream so far.
func (e *testEnv) activityEntries(t *testing.T) []model.LogEntry {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.logsDir, "activity.log"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var entries []model.LogEntry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry model.LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

// lastActivity returns the most recent activity entry.
func (e *testEnv) lastActivity(t *testing.T) model.LogEntry {
	t.Helper()
	entries := e.activityEntries(t)
	require.NotEmpty(t, entries)
	return entries[len(entries)-1]
}

// signup registers a user directly through the service.
func (e *testEnv) signup(t *testing.T, username, email string) model.UserResponse {
	t.Helper()
	user, err := NewUserService(e.store, e.logger).Signup(username, email, "secret123", "")
	require.NoError(t, err)
	return user
}
