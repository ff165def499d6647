package tasks

import (
	"strings"
	"time"

	"taskflow-api/internal/apperr"
	"taskflow-api/internal/models"
	"taskflow-api/internal/notify"
	"taskflow-api/internal/permissions"

	"github.com/google/uuid"
)

// AddComment appends a comment to a task the actor may view. The author's name
// and admin standing are snapshotted into the comment so it stays readable if
// the user record later changes.
func (s *Service) AddComment(actor models.Actor, id, content string) (*models.Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("content", "Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, apperr.Validation("content", "Comment content must be less than 500 characters")
	}

	task, err := s.tasks.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := permissions.Can(actor, task, permissions.ActionCommentAdd); err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:            uuid.NewString(),
		Content:       content,
		AuthorID:      actor.ID,
		AuthorName:    actor.Name,
		IsAdminRemark: actor.IsAdmin(),
		CreatedAt:     time.Now(),
	}
	task.Comments = append(task.Comments, comment)

	if err := s.tasks.SaveColumns(task, "comments"); err != nil {
		return nil, err
	}

	s.notifyUsers(notify.KindTaskComment, task, actor, watchers(task), &comment)

	task.SyncLegacyAssignee()
	return task, nil
}

// DeleteComment removes a single comment. Only the comment's author or an
// admin may delete; comments are never edited in place.
func (s *Service) DeleteComment(actor models.Actor, taskID, commentID string) error {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return err
	}

	idx := -1
	for i, c := range task.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperr.NotFound("comment")
	}
	if err := permissions.CanDeleteComment(actor, task.Comments[idx]); err != nil {
		return err
	}

	task.Comments = append(task.Comments[:idx], task.Comments[idx+1:]...)
	return s.tasks.SaveColumns(task, "comments")
}
