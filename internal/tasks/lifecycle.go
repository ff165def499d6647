package tasks

import (
	"errors"
	"time"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
	"taskflow-api/internal/notify"
	"taskflow-api/internal/permissions"
	"taskflow-api/internal/query"
	"taskflow-api/internal/store"
	"taskflow-api/internal/timer"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// patchColumns are the columns an update may write. Timer and session columns
// are deliberately absent: those only change through conditional writes, so an
// update from an earlier read cannot erase a session a concurrent stop appended.
var patchColumns = []string{
	"title", "description", "status", "priority", "due_date", "assignees", "tags",
}

// ListRequest carries paging plus the optional filters.
type ListRequest struct {
	Page   int
	Limit  int
	Filter query.Filters
}

// ListResult is one page of tasks with pagination totals.
type ListResult struct {
	Tasks []models.Task
	Page  int
	Limit int
	Total int
	Pages int
}

// List returns the actor's visible tasks, filtered, in default order: due date
// ascending with undated tasks last, then priority.
func (s *Service) List(actor models.Actor, req ListRequest) (*ListResult, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	pred := query.BuildPredicate(actor, req.Filter)
	tasks, total, err := s.tasks.Find(pred, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].SyncLegacyAssignee()
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return &ListResult{Tasks: tasks, Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

// Get fetches a single task the actor may view.
func (s *Service) Get(actor models.Actor, id string) (*models.Task, error) {
	task, err := s.tasks.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := permissions.Can(actor, task, permissions.ActionView); err != nil {
		return nil, err
	}
	task.SyncLegacyAssignee()
	return task, nil
}

// Create validates the draft, resolves assignee references and persists a new
// task owned by the actor. Each assignee other than the creator gets an
// assignment notification.
func (s *Service) Create(actor models.Actor, draft Draft) (*models.Task, error) {
	dueDate, err := s.validateDraft(&draft)
	if err != nil {
		return nil, err
	}

	assignees := models.CanonicalAssignees(draft.Assignee, draft.Assignees)
	if err := s.validateAssignees(assignees); err != nil {
		return nil, err
	}

	status := draft.Status
	if status == "" {
		status = models.StatusTodo
	}
	priority := draft.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := &models.Task{
		ID:           uuid.NewString(),
		Title:        draft.Title,
		Description:  draft.Description,
		Status:       status,
		Priority:     priority,
		CreatedBy:    actor.ID,
		Assignees:    assignees,
		DueDate:      dueDate,
		Tags:         draft.Tags,
		WorkSessions: []models.WorkSession{},
		Comments:     []models.Comment{},
	}
	task.RecomputeTimeSpent()

	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}

	s.notifyUsers(notify.KindTaskAssigned, task, actor, task.Assignees, nil)

	task.SyncLegacyAssignee()
	return task, nil
}

// Update applies a patch under the role rules: admins may change any field,
// team members only status, and only on tasks assigned to them. Completing a
// task force-stops a running timer in the same atomic write, so a completed
// task never carries an open session.
func (s *Service) Update(actor models.Actor, id string, patch Patch) (*models.Task, error) {
	task, err := s.tasks.FindByID(id)
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		if err := permissions.Can(actor, task, permissions.ActionUpdate); err != nil {
			return nil, err
		}
	} else {
		if !patch.TouchesOnlyStatus() {
			return nil, apperr.Forbidden("team members may only change task status")
		}
		if err := permissions.Can(actor, task, permissions.ActionUpdateStatus); err != nil {
			return nil, err
		}
	}

	task, completed, err := s.saveWithPatch(task, patch)
	if err != nil {
		return nil, err
	}

	s.notifyUsers(notify.KindTaskUpdated, task, actor, watchers(task), nil)
	if completed && task.CreatedBy != actor.ID {
		s.notifyUsers(notify.KindTaskCompleted, task, actor, []string{task.CreatedBy}, nil)
	}

	task.SyncLegacyAssignee()
	return task, nil
}

// saveWithPatch applies the patch and persists it. A patch that completes the
// task is written conditioned on the timer state observed on the row, closing
// the open session in the same write when one is running; when the write loses
// to a concurrent timer transition the row is re-read and the patch re-applied,
// so a completed task never keeps an open session. Reports whether the write
// transitioned the task to completed.
func (s *Service) saveWithPatch(task *models.Task, patch Patch) (*models.Task, bool, error) {
	for {
		prevStatus := task.Status
		if err := s.applyPatch(task, patch); err != nil {
			return nil, false, err
		}
		completing := task.Status == models.StatusCompleted && prevStatus != models.StatusCompleted

		if !completing {
			if err := s.tasks.SaveColumns(task, patchColumns...); err != nil {
				return nil, false, err
			}
			return task, false, nil
		}

		wasRunning := task.IsTimerRunning
		columns := patchColumns
		if wasRunning {
			timer.CloseOpenSession(task, timer.Now())
			columns = append(append([]string{}, patchColumns...),
				"work_sessions", "time_spent", "is_timer_running", "timer_started_at", "timer_started_by")
		}
		err := s.tasks.SaveTimerState(task, wasRunning, columns...)
		if errors.Is(err, store.ErrStaleTimerState) {
			fresh, ferr := s.tasks.FindByID(task.ID)
			if ferr != nil {
				return nil, false, ferr
			}
			task = fresh
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return task, true, nil
	}
}

// applyPatch validates and applies the non-nil patch fields in memory.
func (s *Service) applyPatch(task *models.Task, patch Patch) error {
	v := apperr.NewValidation()

	if patch.Title != nil {
		validateTitle(v, *patch.Title)
	}
	if patch.Description != nil && len(*patch.Description) > maxDescriptionLen {
		v.Add("description", "Description must be less than 1000 characters")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		v.Add("status", "Status must be todo, in-progress, or completed")
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		v.Add("priority", "Priority must be low, medium, or high")
	}
	if patch.Tags != nil {
		validateTags(v, *patch.Tags)
	}

	var dueDate *time.Time
	if patch.DueDate != nil && *patch.DueDate != "" {
		t, ok := parseDateFlexible(*patch.DueDate)
		if !ok {
			v.Add("dueDate", "Due date must be a valid date")
		} else {
			dueDate = &t
		}
	}
	if !v.Empty() {
		return v
	}

	if patch.Assignee != nil || patch.Assignees != nil {
		legacy := ""
		if patch.Assignee != nil {
			legacy = *patch.Assignee
		}
		var list []string
		if patch.Assignees != nil {
			list = *patch.Assignees
		} else {
			list = task.Assignees
		}
		assignees := models.CanonicalAssignees(legacy, list)
		if err := s.validateAssignees(assignees); err != nil {
			return err
		}
		task.Assignees = assignees
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = dueDate
	}
	if patch.Tags != nil {
		task.Tags = *patch.Tags
	}
	return nil
}

// Delete hard-removes a task. Only the creator or an admin may delete.
func (s *Service) Delete(actor models.Actor, id string) error {
	task, err := s.tasks.FindByID(id)
	if err != nil {
		return err
	}
	if err := permissions.Can(actor, task, permissions.ActionDelete); err != nil {
		return err
	}
	return s.tasks.Delete(id)
}

// Archive toggles the archived flag without touching status or timer state.
func (s *Service) Archive(actor models.Actor, id string) (*models.Task, error) {
	task, err := s.tasks.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := permissions.Can(actor, task, permissions.ActionArchive); err != nil {
		return nil, err
	}

	task.IsArchived = !task.IsArchived
	if err := s.tasks.SaveColumns(task, "is_archived"); err != nil {
		return nil, err
	}
	task.SyncLegacyAssignee()
	return task, nil
}
