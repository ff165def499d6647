package tasks

import (
	"strings"
	"time"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	maxTagLen         = 50
	maxCommentLen     = 500
)

// parseDateFlexible accepts the date formats clients are known to send.
func parseDateFlexible(dateStr string) (time.Time, bool) {
	layouts := []string{
		"2006-01-02", // ISO date
		time.RFC3339, // full RFC3339
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Draft is the input for creating a task. Assignee is the legacy singular form;
// it is merged into Assignees before validation.
type Draft struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     string              `json:"dueDate"`
	Assignee    string              `json:"assignee"`
	Assignees   []string            `json:"assignees"`
	Tags        []string            `json:"tags"`
}

// Patch is the input for updating a task; nil fields are left untouched.
type Patch struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *string              `json:"dueDate"`
	Assignee    *string              `json:"assignee"`
	Assignees   *[]string            `json:"assignees"`
	Tags        *[]string            `json:"tags"`
}

// TouchesOnlyStatus reports whether the patch changes nothing but status.
// Team-member updates are rejected outright when this is false.
func (p Patch) TouchesOnlyStatus() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.DueDate == nil && p.Assignee == nil && p.Assignees == nil && p.Tags == nil
}

func validateTitle(v *apperr.ValidationError, title string) {
	if strings.TrimSpace(title) == "" {
		v.Add("title", "Title is required")
	} else if len(title) > maxTitleLen {
		v.Add("title", "Title must be less than 200 characters")
	}
}

func validateTags(v *apperr.ValidationError, tags []string) {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" || len(tag) > maxTagLen {
			v.Add("tags", "Each tag must be between 1 and 50 characters")
			return
		}
	}
}

func (s *Service) validateDraft(d *Draft) (*time.Time, error) {
	v := apperr.NewValidation()

	validateTitle(v, d.Title)
	if len(d.Description) > maxDescriptionLen {
		v.Add("description", "Description must be less than 1000 characters")
	}
	if d.Status != "" && !d.Status.Valid() {
		v.Add("status", "Status must be todo, in-progress, or completed")
	}
	if d.Priority != "" && !d.Priority.Valid() {
		v.Add("priority", "Priority must be low, medium, or high")
	}
	validateTags(v, d.Tags)

	var dueDate *time.Time
	if d.DueDate != "" {
		t, ok := parseDateFlexible(d.DueDate)
		if !ok {
			v.Add("dueDate", "Due date must be a valid date")
		} else {
			dueDate = &t
		}
	}

	if !v.Empty() {
		return nil, v
	}
	return dueDate, nil
}

// validateAssignees checks every referenced user exists. Runs before any write
// so a bad reference persists nothing.
func (s *Service) validateAssignees(ids []string) error {
	missing, err := s.users.Missing(ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperr.Validation("assignees", "Assigned user not found: "+strings.Join(missing, ", "))
	}
	return nil
}
