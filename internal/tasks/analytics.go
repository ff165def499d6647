package tasks

import (
	"math"
	"time"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
)

// Analytics is the admin dashboard aggregation. Read-only; archived tasks are
// excluded throughout.
type Analytics struct {
	TotalTasks      int64           `json:"totalTasks"`
	CompletedTasks  int64           `json:"completedTasks"`
	InProgressTasks int64           `json:"inProgressTasks"`
	TodoTasks       int64           `json:"todoTasks"`
	ActiveTimers    int             `json:"activeTimers"`
	OverdueTasks    int             `json:"overdueTasks"`
	CompletionRate  float64         `json:"completionRate"`
	TasksByAssignee []AssigneeCount `json:"tasksByAssignee"`
}

// AssigneeCount is a per-assignee task count with display fields.
type AssigneeCount struct {
	ID         string `json:"id"`
	Count      int    `json:"count"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Analytics aggregates task counts for the admin dashboard.
func (s *Service) Analytics(actor models.Actor) (*Analytics, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}

	byStatus, err := s.tasks.CountByStatus()
	if err != nil {
		return nil, err
	}

	active, _, err := s.tasks.Find(func(t *models.Task) bool {
		return !t.IsArchived
	}, 0, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	overdue := 0
	activeTimers := 0
	byAssignee := map[string]int{}
	var order []string
	for i := range active {
		t := &active[i]
		if t.IsTimerRunning {
			activeTimers++
		}
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != models.StatusCompleted {
			overdue++
		}
		for _, id := range t.Assignees {
			if _, ok := byAssignee[id]; !ok {
				order = append(order, id)
			}
			byAssignee[id]++
		}
	}

	counts := make([]AssigneeCount, 0, len(order))
	for _, id := range order {
		ac := AssigneeCount{ID: id, Count: byAssignee[id]}
		if u, ok := s.resolveUser(id); ok {
			ac.Name = u.Name
			ac.Email = u.Email
			ac.Department = u.Department
		}
		counts = append(counts, ac)
	}

	total := byStatus[models.StatusTodo] + byStatus[models.StatusInProgress] + byStatus[models.StatusCompleted]
	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(byStatus[models.StatusCompleted])/float64(total)*10000) / 100
	}

	return &Analytics{
		TotalTasks:      total,
		CompletedTasks:  byStatus[models.StatusCompleted],
		InProgressTasks: byStatus[models.StatusInProgress],
		TodoTasks:       byStatus[models.StatusTodo],
		ActiveTimers:    activeTimers,
		OverdueTasks:    overdue,
		CompletionRate:  rate,
		TasksByAssignee: counts,
	}, nil
}
