package timer

import (
	"testing"
	"time"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
	"taskflow-api/internal/store"
	"taskflow-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

var (
	assignee = models.Actor{ID: "u2", Role: models.RoleTeamMember}
	admin    = models.Actor{ID: "a1", Role: models.RoleAdmin}
)

func newEngine(t *testing.T) (*Engine, *store.TaskStore) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	ts := store.NewTaskStore(db)
	return NewEngine(ts), ts
}

func seedTask(t *testing.T, ts *store.TaskStore) *models.Task {
	t.Helper()
	task := &models.Task{
		ID:        "t1",
		Title:     "Design logo",
		Status:    models.StatusTodo,
		Priority:  models.PriorityHigh,
		CreatedBy: "a1",
		Assignees: []string{"u2"},
	}
	require.NoError(t, ts.Create(task))
	return task
}

func stubNow(t *testing.T, at time.Time) {
	t.Helper()
	now = func() time.Time { return at }
	t.Cleanup(func() { now = time.Now })
}

func TestStartThenStop_AppendsOneSession(t *testing.T) {
	engine, ts := newEngine(t)
	task := seedTask(t, ts)

	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	stubNow(t, started)
	require.NoError(t, engine.Start(assignee, task))
	require.True(t, task.IsTimerRunning)
	require.Equal(t, "u2", task.TimerStartedBy)
	require.NotNil(t, task.TimerStartedAt)

	stubNow(t, started.Add(125*time.Minute))
	duration, err := engine.Stop(assignee, task)
	require.NoError(t, err)
	require.Equal(t, 125, duration)

	stored, err := ts.FindByID("t1")
	require.NoError(t, err)
	require.False(t, stored.IsTimerRunning)
	require.Nil(t, stored.TimerStartedAt)
	require.Empty(t, stored.TimerStartedBy)
	require.Len(t, stored.WorkSessions, 1)
	require.Equal(t, 125, stored.WorkSessions[0].Duration)
	require.Equal(t, "u2", stored.WorkSessions[0].UserID)
	require.Equal(t, 125, stored.TimeSpent)
}

func TestStart_AlreadyRunning(t *testing.T) {
	engine, ts := newEngine(t)
	task := seedTask(t, ts)

	require.NoError(t, engine.Start(assignee, task))

	fresh, err := ts.FindByID("t1")
	require.NoError(t, err)
	require.ErrorIs(t, engine.Start(admin, fresh), apperr.ErrAlreadyRunning)
}

func TestStart_RaceLoserDoesNotStealOwnership(t *testing.T) {
	engine, ts := newEngine(t)
	seedTask(t, ts)

	// Two callers read the idle task before either writes.
	copyA, err := ts.FindByID("t1")
	require.NoError(t, err)
	copyB, err := ts.FindByID("t1")
	require.NoError(t, err)

	require.NoError(t, engine.Start(assignee, copyA))
	require.ErrorIs(t, engine.Start(admin, copyB), apperr.ErrAlreadyRunning)

	stored, err := ts.FindByID("t1")
	require.NoError(t, err)
	require.Equal(t, "u2", stored.TimerStartedBy)
}

func TestStop_NotRunning(t *testing.T) {
	engine, ts := newEngine(t)
	task := seedTask(t, ts)

	_, err := engine.Stop(assignee, task)
	require.ErrorIs(t, err, apperr.ErrNotRunning)
}

func TestStop_RaceAppendsExactlyOneSession(t *testing.T) {
	engine, ts := newEngine(t)
	task := seedTask(t, ts)
	require.NoError(t, engine.Start(assignee, task))

	copyA, err := ts.FindByID("t1")
	require.NoError(t, err)
	copyB, err := ts.FindByID("t1")
	require.NoError(t, err)

	_, err = engine.Stop(assignee, copyA)
	require.NoError(t, err)

	_, err = engine.Stop(admin, copyB)
	require.ErrorIs(t, err, apperr.ErrNotRunning)

	stored, err := ts.FindByID("t1")
	require.NoError(t, err)
	require.Len(t, stored.WorkSessions, 1)
}

func TestStop_SubMinuteSessionRounds(t *testing.T) {
	engine, ts := newEngine(t)
	task := seedTask(t, ts)

	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	stubNow(t, started)
	require.NoError(t, engine.Start(assignee, task))

	stubNow(t, started.Add(59*time.Second))
	duration, err := engine.Stop(assignee, task)
	require.NoError(t, err)
	require.Equal(t, 1, duration)
}

func TestStart_PermissionDenied(t *testing.T) {
	engine, ts := newEngine(t)
	task := seedTask(t, ts)

	outsider := models.Actor{ID: "u9", Role: models.RoleTeamMember}
	require.ErrorIs(t, engine.Start(outsider, task), apperr.ErrForbidden)
}

func TestCloseOpenSession(t *testing.T) {
	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	task := &models.Task{
		IsTimerRunning: true,
		TimerStartedAt: &started,
		TimerStartedBy: "u2",
	}

	duration := CloseOpenSession(task, started.Add(30*time.Second))
	require.Equal(t, 1, duration)
	require.False(t, task.IsTimerRunning)
	require.Len(t, task.WorkSessions, 1)
	require.Equal(t, 1, task.TimeSpent)

	// idle task is a no-op
	require.Zero(t, CloseOpenSession(task, started))
	require.Len(t, task.WorkSessions, 1)
}

func TestElapsedMinutes(t *testing.T) {
	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	stubNow(t, started.Add(42*time.Minute))

	task := &models.Task{IsTimerRunning: true, TimerStartedAt: &started}
	require.Equal(t, 42, ElapsedMinutes(task))
	require.Zero(t, ElapsedMinutes(&models.Task{}))
}
