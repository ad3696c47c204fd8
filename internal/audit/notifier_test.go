package audit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"marketplace-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotifier(t *testing.T, url string) (*Notifier, string) {
	t.Helper()
	activityPath := filepath.Join(t.TempDir(), "activity.log")
	n := NewNotifier(NotifierConfig{
		URL:             url,
		User:            "svc",
		Pass:            "pw",
		Retries:         3,
		Backoff:         time.Millisecond,
		Timeout:         time.Second,
		ActivityLogPath: activityPath,
	})
	return n, activityPath
}

func TestNotifierDeliverSuccess(t *testing.T) {
	var attempts atomic.Int32
	var gotAuth atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		user, pass, ok := r.BasicAuth()
		gotAuth.Store(ok && user == "svc" && pass == "pw")

		var payload model.EscalationPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "login_failed - alice", payload.ShortDescription)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n, activityPath := testNotifier(t, srv.URL)
	n.deliver(model.EscalationPayload{ShortDescription: "login_failed - alice", Description: "{}"})

	assert.EqualValues(t, 1, attempts.Load())
	assert.True(t, gotAuth.Load())
	assert.Nil(t, readLines(t, activityPath))
}

func TestNotifierRetriesThenSucceeds(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n, activityPath := testNotifier(t, srv.URL)
	n.deliver(model.EscalationPayload{ShortDescription: "x_failed - bob"})

	assert.EqualValues(t, 2, attempts.Load())
	assert.Nil(t, readLines(t, activityPath))
}

func TestNotifierExhaustionWritesFallback(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n, activityPath := testNotifier(t, srv.URL)
	payload := model.EscalationPayload{
		ShortDescription: "purchase_failed_item_not_found - bob",
		Description:      `{"action":"purchase_failed_item_not_found"}`,
	}
	n.deliver(payload)

	assert.EqualValues(t, 3, attempts.Load())

	lines := readLines(t, activityPath)
	require.Len(t, lines, 1)

	var entry struct {
		TS      string                  `json:"ts"`
		Action  string                  `json:"action"`
		Error   string                  `json:"error"`
		Payload model.EscalationPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "servicenow_notify_failed", entry.Action)
	assert.Contains(t, entry.Error, "unexpected status 502")
	assert.Equal(t, payload, entry.Payload)
	_, err := time.Parse(time.RFC3339Nano, entry.TS)
	assert.NoError(t, err)
}

func TestNotifierNoClientIsImmediateFailure(t *testing.T) {
	n, activityPath := testNotifier(t, "https://sink.invalid")
	n.client = nil

	n.deliver(model.EscalationPayload{ShortDescription: "test_snow - unknown"})

	lines := readLines(t, activityPath)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"servicenow_notify_failed"`)
	assert.Contains(t, lines[0], "http client unavailable")
}

func TestNotifierWorkerDrainsQueueOnStop(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n, _ := testNotifier(t, srv.URL)
	n.Start()
	for i := 0; i < 5; i++ {
		n.Enqueue(model.EscalationPayload{ShortDescription: "x_failed"})
	}
	n.Stop()

	assert.EqualValues(t, 5, attempts.Load())
}

func TestNotifierEnqueueDropsWhenFull(t *testing.T) {
	n, _ := testNotifier(t, "https://sink.invalid")
	// Worker not started, so the queue only drains by capacity.
	for i := 0; i < DefaultQueueSize+10; i++ {
		n.Enqueue(model.EscalationPayload{ShortDescription: "x_failed"})
	}
	assert.Len(t, n.queue, DefaultQueueSize)
}
