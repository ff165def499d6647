package tasks

import (
	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
	"taskflow-api/internal/timer"
)

// StartTimer opens a work session on the task. As a convenience a todo task is
// promoted to in-progress; that is lifecycle policy, not a timer rule, so it
// happens here rather than in the engine.
func (s *Service) StartTimer(actor models.Actor, id string) (*models.Task, error) {
	task, err := s.tasks.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Start(actor, task); err != nil {
		return nil, err
	}

	if task.Status == models.StatusTodo {
		task.Status = models.StatusInProgress
		// Conditioned on the timer we just started still running; if a racing
		// stop got there first, leave status alone.
		if err := s.tasks.SaveTimerState(task, true, "status"); err != nil {
			task.Status = models.StatusTodo
		}
	}

	task.SyncLegacyAssignee()
	return task, nil
}

// StopTimer closes the open work session and returns the task plus the closed
// session's duration in minutes.
func (s *Service) StopTimer(actor models.Actor, id string) (*models.Task, int, error) {
	task, err := s.tasks.FindByID(id)
	if err != nil {
		return nil, 0, err
	}
	duration, err := s.engine.Stop(actor, task)
	if err != nil {
		return nil, 0, err
	}
	task.SyncLegacyAssignee()
	return task, duration, nil
}

// ActiveTimer is a running task annotated with the live minutes of its open
// session, computed at read time.
type ActiveTimer struct {
	models.Task
	CurrentSessionDuration int `json:"currentSessionDuration"`
	TotalTimeSpent         int `json:"totalTimeSpent"`
}

// ActiveTimers returns every non-archived task with a running timer. Admin
// only.
func (s *Service) ActiveTimers(actor models.Actor) ([]ActiveTimer, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}

	running, _, err := s.tasks.Find(func(t *models.Task) bool {
		return t.IsTimerRunning && !t.IsArchived
	}, 0, 0)
	if err != nil {
		return nil, err
	}

	out := make([]ActiveTimer, 0, len(running))
	for _, t := range running {
		t.SyncLegacyAssignee()
		out = append(out, ActiveTimer{
			Task:                   t,
			CurrentSessionDuration: timer.ElapsedMinutes(&t),
			TotalTimeSpent:         t.TimeSpent,
		})
	}
	return out, nil
}
