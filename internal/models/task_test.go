package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCanonicalAssignees(t *testing.T) {
	got := CanonicalAssignees("u1", []string{"u2", "u1", " u3 ", "", "u2"})
	require.Equal(t, []string{"u1", "u2", "u3"}, got)

	require.Empty(t, CanonicalAssignees("", nil))
	require.Equal(t, []string{"u9"}, CanonicalAssignees("", []string{"u9"}))
}

func TestRecomputeTimeSpent_IgnoresOpenSessions(t *testing.T) {
	end := time.Now()
	task := Task{
		TimeSpent: 999, // stale value, must be overwritten
		WorkSessions: []WorkSession{
			{StartTime: end.Add(-time.Hour), EndTime: &end, Duration: 60},
			{StartTime: end.Add(-time.Minute), EndTime: &end, Duration: 1},
			{StartTime: end, Duration: 42}, // open, not counted
		},
	}
	task.RecomputeTimeSpent()
	require.Equal(t, 61, task.TimeSpent)
}

func TestSessionMinutes_Rounding(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	require.Equal(t, 0, SessionMinutes(start, start.Add(29*time.Second)))
	require.Equal(t, 1, SessionMinutes(start, start.Add(30*time.Second))) // midpoint rounds up
	require.Equal(t, 1, SessionMinutes(start, start.Add(59*time.Second)))
	require.Equal(t, 125, SessionMinutes(start, start.Add(125*time.Minute)))
	require.Equal(t, 0, SessionMinutes(start, start.Add(-time.Minute))) // never negative
}

func TestSyncLegacyAssignee(t *testing.T) {
	task := Task{Assignees: []string{"u2", "u5"}}
	task.SyncLegacyAssignee()
	require.Equal(t, "u2", task.Assignee)

	task.Assignees = nil
	task.SyncLegacyAssignee()
	require.Empty(t, task.Assignee)
}

func TestIsAssignee(t *testing.T) {
	task := Task{Assignees: []string{"u1", "u2"}}
	require.True(t, task.IsAssignee("u2"))
	require.False(t, task.IsAssignee("u3"))
	require.False(t, task.IsAssignee(""))
}
