// Package permissions centralizes the who-may-act rules for tasks. Every
// operation delegates here instead of re-implementing role checks inline. The
// evaluator is pure: it looks only at the actor and the task, and knows nothing
// about transport or storage.
package permissions

import (
	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
)

// Action identifies an intended operation on a task.
type Action int

const (
	ActionView Action = iota
	ActionUpdate
	ActionUpdateStatus
	ActionDelete
	ActionArchive
	ActionTimerStart
	ActionTimerStop
	ActionCommentAdd
)

// Can decides whether the actor may perform the action on the task. It returns
// nil to allow, or an apperr.ErrForbidden-wrapped denial.
//
// Admins may do everything. Team members are restricted to tasks they created
// or are assigned to, and may only mutate status on those. A timer stop is
// additionally allowed for whoever started the open session, even if they were
// since removed as assignee, so a running timer can always be legally closed.
func Can(actor models.Actor, task *models.Task, action Action) error {
	if actor.IsAdmin() {
		return nil
	}

	switch action {
	case ActionView, ActionCommentAdd:
		if task.CreatedBy == actor.ID || task.IsAssignee(actor.ID) {
			return nil
		}
		return apperr.Forbidden("not a creator or assignee of this task")

	case ActionUpdate:
		return apperr.Forbidden("only admins may update task fields other than status")

	case ActionUpdateStatus:
		if task.IsAssignee(actor.ID) {
			return nil
		}
		return apperr.Forbidden("only assignees may change task status")

	case ActionDelete, ActionArchive:
		if task.CreatedBy == actor.ID {
			return nil
		}
		return apperr.Forbidden("only the creator or an admin may do this")

	case ActionTimerStart:
		if task.IsAssignee(actor.ID) {
			return nil
		}
		return apperr.Forbidden("only assignees may start the timer")

	case ActionTimerStop:
		if task.IsAssignee(actor.ID) || task.TimerStartedBy == actor.ID {
			return nil
		}
		return apperr.Forbidden("only assignees or the user who started the timer may stop it")
	}

	return apperr.Forbidden("unknown action")
}

// CanDeleteComment decides whether the actor may remove the given comment.
// Allowed for the comment's author and for admins.
func CanDeleteComment(actor models.Actor, comment models.Comment) error {
	if actor.IsAdmin() || comment.AuthorID == actor.ID {
		return nil
	}
	return apperr.Forbidden("only the comment author or an admin may delete a comment")
}
