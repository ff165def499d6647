// Package store wraps GORM access to tasks and users. Each task row embeds its
// sessions, comments, assignees and tags as JSON columns, so a row is the unit
// of atomicity: one save applies every field change together.
package store

import (
	"errors"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
	"taskflow-api/internal/query"

	"gorm.io/gorm"
)

// ErrStaleTimerState is returned by SaveTimerState when the conditioned write
// matched no row: the timer state changed (or the task vanished) between the
// read and the write. Callers translate it to the appropriate conflict.
var ErrStaleTimerState = errors.New("timer state changed concurrently")

// TaskStore persists tasks.
type TaskStore struct {
	db *gorm.DB
}

// NewTaskStore returns a task store over the given connection.
func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// FindByID fetches a single task.
func (s *TaskStore) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("task")
		}
		return nil, apperr.Dependency("find task", err)
	}
	return &task, nil
}

// Find returns the tasks matching the predicate in listing order, plus the
// total match count before paging. A limit of 0 disables paging. Membership
// filters live in JSON columns, so matching happens over scanned rows rather
// than in SQL.
func (s *TaskStore) Find(pred query.Predicate, skip, limit int) ([]models.Task, int, error) {
	var rows []models.Task
	if err := s.db.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, 0, apperr.Dependency("list tasks", err)
	}

	matched := make([]models.Task, 0, len(rows))
	for _, t := range rows {
		if pred(&t) {
			matched = append(matched, t)
		}
	}
	query.SortTasks(matched)

	total := len(matched)
	if skip > 0 {
		if skip >= total {
			matched = nil
		} else {
			matched = matched[skip:]
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

// Create inserts a new task.
func (s *TaskStore) Create(t *models.Task) error {
	if err := s.db.Create(t).Error; err != nil {
		return apperr.Dependency("create task", err)
	}
	return nil
}

// SaveColumns writes only the named columns of the task row. There is no
// full-row save: columns the operation does not touch keep whatever a
// concurrent writer put there, so a comment append cannot clobber a timer stop
// that landed after the read.
func (s *TaskStore) SaveColumns(t *models.Task, columns ...string) error {
	res := s.db.Model(t).Select(columns).Updates(*t)
	if res.Error != nil {
		return apperr.Dependency("save task", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("task")
	}
	return nil
}

// SaveTimerState writes the named columns of the task, but only if the row's
// is_timer_running still equals wasRunning. This is the optimistic lock that
// keeps concurrent start/stop calls from double-applying: the loser of a race
// matches no row and gets ErrStaleTimerState instead of silently winning.
func (s *TaskStore) SaveTimerState(t *models.Task, wasRunning bool, columns ...string) error {
	res := s.db.Model(t).
		Where("is_timer_running = ?", wasRunning).
		Select(columns).
		Updates(*t)
	if res.Error != nil {
		return apperr.Dependency("save timer state", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleTimerState
	}
	return nil
}

// Delete hard-removes a task.
func (s *TaskStore) Delete(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return apperr.Dependency("delete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("task")
	}
	return nil
}

// CountByStatus aggregates non-archived task counts per status in SQL.
func (s *TaskStore) CountByStatus() (map[models.TaskStatus]int64, error) {
	type row struct {
		Status models.TaskStatus
		Count  int64
	}
	var rows []row
	if err := s.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Where("is_archived = ?", false).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Dependency("count tasks by status", err)
	}

	counts := map[models.TaskStatus]int64{
		models.StatusTodo:       0,
		models.StatusInProgress: 0,
		models.StatusCompleted:  0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
