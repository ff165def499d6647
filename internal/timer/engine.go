// Package timer implements the per-task time-tracking state machine. A task is
// either idle or has exactly one open work session; start and stop flip between
// the two under an optimistic lock so racing calls cannot double-apply.
package timer

import (
	"errors"
	"time"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
	"taskflow-api/internal/permissions"
	"taskflow-api/internal/store"

	"github.com/google/uuid"
)

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// Engine drives timer transitions and their session accounting.
type Engine struct {
	tasks *store.TaskStore
}

// NewEngine returns an engine writing through the given task store.
func NewEngine(tasks *store.TaskStore) *Engine {
	return &Engine{tasks: tasks}
}

// Start opens a work session on an idle task. The task is mutated in place and
// persisted with a write conditioned on the timer still being idle; a racing
// start loses with apperr.ErrAlreadyRunning rather than overwriting ownership.
// Starting a timer does not change task status; status policy lives above the
// engine.
func (e *Engine) Start(actor models.Actor, task *models.Task) error {
	if err := permissions.Can(actor, task, permissions.ActionTimerStart); err != nil {
		return err
	}
	if task.IsTimerRunning {
		return apperr.ErrAlreadyRunning
	}

	startedAt := now()
	task.IsTimerRunning = true
	task.TimerStartedAt = &startedAt
	task.TimerStartedBy = actor.ID

	err := e.tasks.SaveTimerState(task, false,
		"is_timer_running", "timer_started_at", "timer_started_by")
	if errors.Is(err, store.ErrStaleTimerState) {
		return apperr.ErrAlreadyRunning
	}
	return err
}

// Stop closes the open work session, appending exactly one frozen session and
// resumming time spent. The write is conditioned on the timer still running, so
// of two racing stops only one appends; the other sees apperr.ErrNotRunning.
// Returns the closed session's duration in minutes.
func (e *Engine) Stop(actor models.Actor, task *models.Task) (int, error) {
	if err := permissions.Can(actor, task, permissions.ActionTimerStop); err != nil {
		return 0, err
	}
	if !task.IsTimerRunning {
		return 0, apperr.ErrNotRunning
	}

	duration := CloseOpenSession(task, now())

	err := e.tasks.SaveTimerState(task, true,
		"work_sessions", "time_spent", "is_timer_running", "timer_started_at", "timer_started_by")
	if errors.Is(err, store.ErrStaleTimerState) {
		return 0, apperr.ErrNotRunning
	}
	if err != nil {
		return 0, err
	}
	return duration, nil
}

// CloseOpenSession folds the running timer into a closed work session on the
// in-memory task: append the session, clear the timer fields, resum time spent.
// It does not persist; callers that also change other fields (completing a task
// forces a stop) fold this into their own atomic write. Returns the session
// duration in minutes, or 0 if no timer was running.
func CloseOpenSession(task *models.Task, at time.Time) int {
	if !task.IsTimerRunning || task.TimerStartedAt == nil {
		return 0
	}
	end := at
	duration := models.SessionMinutes(*task.TimerStartedAt, end)
	task.WorkSessions = append(task.WorkSessions, models.WorkSession{
		ID:        uuid.NewString(),
		StartTime: *task.TimerStartedAt,
		EndTime:   &end,
		Duration:  duration,
		UserID:    task.TimerStartedBy,
	})
	task.IsTimerRunning = false
	task.TimerStartedAt = nil
	task.TimerStartedBy = ""
	task.RecomputeTimeSpent()
	return duration
}

// Now returns the engine's current time. Exposed so callers that close sessions
// themselves use the same clock as the engine.
func Now() time.Time {
	return now()
}

// ElapsedMinutes reports the live minutes of the open session, computed on read
// and never stored. Returns 0 for idle tasks.
func ElapsedMinutes(task *models.Task) int {
	if !task.IsTimerRunning || task.TimerStartedAt == nil {
		return 0
	}
	return models.SessionMinutes(*task.TimerStartedAt, now())
}
