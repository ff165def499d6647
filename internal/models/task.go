package models

import (
	"math"
	"strings"
	"time"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank returns the sort rank of a priority: high=1, medium=2, low=3.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// WorkSession is a single tracked interval of work on a task. A session is open
// while EndTime is nil; once closed its Duration is computed and frozen.
type WorkSession struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  int        `json:"duration"`
	UserID    string     `json:"userId,omitempty"`
}

// Closed reports whether the session has been stopped.
func (w WorkSession) Closed() bool {
	return w.EndTime != nil
}

// Comment is an append-only remark on a task. The author name is snapshotted at
// creation time so historical comments stay readable after user changes.
type Comment struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	AuthorID      string    `json:"authorId"`
	AuthorName    string    `json:"authorName"`
	IsAdminRemark bool      `json:"isAdminRemark"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Task represents a task in the system. Work sessions, comments, assignees and
// tags are embedded JSON columns, so every save is a single atomic row write.
type Task struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	Title          string        `json:"title" gorm:"not null"`
	Description    string        `json:"description"`
	Status         TaskStatus    `json:"status" gorm:"not null;default:'todo';index"`
	Priority       TaskPriority  `json:"priority" gorm:"default:'medium'"`
	CreatedBy      string        `json:"createdBy" gorm:"column:created_by;not null;index"`
	Assignees      []string      `json:"assignees" gorm:"serializer:json"`
	Assignee       string        `json:"assignee,omitempty" gorm:"-"`
	DueDate        *time.Time    `json:"dueDate,omitempty" gorm:"column:due_date;index"`
	Tags           []string      `json:"tags" gorm:"serializer:json"`
	IsArchived     bool          `json:"isArchived" gorm:"column:is_archived"`
	TimeSpent      int           `json:"timeSpent" gorm:"column:time_spent"`
	IsTimerRunning bool          `json:"isTimerRunning" gorm:"column:is_timer_running"`
	TimerStartedAt *time.Time    `json:"timerStartedAt,omitempty" gorm:"column:timer_started_at"`
	TimerStartedBy string        `json:"timerStartedBy,omitempty" gorm:"column:timer_started_by"`
	WorkSessions   []WorkSession `json:"workSessions" gorm:"serializer:json"`
	Comments       []Comment     `json:"comments" gorm:"serializer:json"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// IsAssignee reports whether the given user is in the task's assignee set.
func (t *Task) IsAssignee(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range t.Assignees {
		if id == userID {
			return true
		}
	}
	return false
}

// RecomputeTimeSpent resums the durations of all closed work sessions. TimeSpent
// is always derived this way, never incremented, so prior drift cannot compound.
func (t *Task) RecomputeTimeSpent() {
	total := 0
	for _, s := range t.WorkSessions {
		if s.Closed() {
			total += s.Duration
		}
	}
	t.TimeSpent = total
}

// SyncLegacyAssignee refreshes the legacy singular assignee field. It is a
// derived view of the first entry in the canonical assignee set, kept only for
// callers that still speak the old single-assignee shape; it is never stored
// independently.
func (t *Task) SyncLegacyAssignee() {
	if len(t.Assignees) > 0 {
		t.Assignee = t.Assignees[0]
	} else {
		t.Assignee = ""
	}
}

// CanonicalAssignees merges a legacy singular assignee with an assignee list
// into one ordered, duplicate-free set. The legacy value, when present, keeps
// its first-position meaning.
func CanonicalAssignees(legacy string, ids []string) []string {
	out := make([]string, 0, len(ids)+1)
	seen := make(map[string]struct{}, len(ids)+1)
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(legacy)
	for _, id := range ids {
		add(id)
	}
	return out
}

// SessionMinutes converts a tracked interval to whole minutes, rounding half-up.
// Sub-minute sessions may legitimately round to zero; the result is never
// negative.
func SessionMinutes(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(math.Round(end.Sub(start).Minutes()))
}
