package bench

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveAndList(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "sihui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first := &Report{Host: "localhost:8080", Method: "GET", Endpoint: "/api/users", Concurrency: 2, Requests: 10,
		Sent: 10, Completed: 10, Succeeded: 9, Rejected: 1, Status: StatusCompleted,
		AvgDurationMs: 12.5, P95DurationMs: 30, StartedAt: start, CompletedAt: start.Add(time.Second)}
	second := &Report{Host: "localhost:8080", Method: "POST", Endpoint: "/api/ai/chat", Concurrency: 1, Requests: 5,
		Sent: 2, Completed: 2, Succeeded: 2, Status: StatusCancelled,
		StartedAt: start.Add(time.Hour), CompletedAt: start.Add(time.Hour + time.Second)}

	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	runs, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "/api/ai/chat", runs[0].Endpoint)
	assert.Equal(t, StatusCancelled, runs[0].Status)
	assert.Equal(t, 9, runs[1].Succeeded)
	assert.InDelta(t, 12.5, runs[1].AvgDurationMs, 0.001)
	assert.True(t, runs[1].StartedAt.Equal(start))

	limited, err := store.List(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, store.Clear())
	runs, err = store.List(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
