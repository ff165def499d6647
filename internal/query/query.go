// Package query turns a requesting actor plus optional list filters into a
// single task predicate and the default listing order. It is a pure
// transformation: no storage access, deterministic for identical inputs.
package query

import (
	"sort"
	"strings"

	"taskflow-api/internal/models"
)

// Filters are the optional listing filters a caller may combine.
type Filters struct {
	Status          string
	ExcludeStatus   string
	Priority        string
	Assignee        string
	Assignees       []string
	Tags            []string
	Search          string
	IncludeArchived bool
}

// Predicate decides whether a task is part of a result set.
type Predicate func(*models.Task) bool

// BuildPredicate combines the actor's access scope with the filters. All parts
// are conjoined, with two OR groups inside: a team member's scope is
// (created-by-me OR assigned-to-me), and a free-text search matches title OR
// description. A team member's search therefore still respects their scope.
func BuildPredicate(actor models.Actor, f Filters) Predicate {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	return func(t *models.Task) bool {
		if !actor.IsAdmin() {
			if t.CreatedBy != actor.ID && !t.IsAssignee(actor.ID) {
				return false
			}
		}
		if !f.IncludeArchived && t.IsArchived {
			return false
		}
		if f.Status != "" && string(t.Status) != f.Status {
			return false
		}
		if f.ExcludeStatus != "" && string(t.Status) == f.ExcludeStatus {
			return false
		}
		if f.Priority != "" && string(t.Priority) != f.Priority {
			return false
		}
		if f.Assignee != "" && !t.IsAssignee(f.Assignee) {
			return false
		}
		if len(f.Assignees) > 0 && !anyAssignee(t, f.Assignees) {
			return false
		}
		if len(f.Tags) > 0 && !anyTag(t, f.Tags) {
			return false
		}
		if search != "" {
			if !strings.Contains(strings.ToLower(t.Title), search) &&
				!strings.Contains(strings.ToLower(t.Description), search) {
				return false
			}
		}
		return true
	}
}

func anyAssignee(t *models.Task, ids []string) bool {
	for _, id := range ids {
		if t.IsAssignee(id) {
			return true
		}
	}
	return false
}

func anyTag(t *models.Task, tags []string) bool {
	for _, want := range tags {
		for _, have := range t.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// SortTasks orders tasks for listing: ascending due date with undated tasks
// after all dated ones, then priority rank (high before medium before low) as
// the tie-break. The sort is stable so equal tasks keep store order.
func SortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := &tasks[i], &tasks[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			// fall through to priority
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.Priority.Rank() < b.Priority.Rank()
	})
}
