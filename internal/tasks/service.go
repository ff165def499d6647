// Package tasks orchestrates the task lifecycle: listing, mutation, comments,
// timers and the admin aggregations. It gates every mutation through the
// permission evaluator, keeps the assignee set and time accounting consistent,
// and fans out best-effort notifications that never fail the primary operation.
package tasks

import (
	"time"

	"taskflow-api/internal/cache"
	"taskflow-api/internal/models"
	"taskflow-api/internal/notify"
	"taskflow-api/internal/store"
	"taskflow-api/internal/timer"

	"gorm.io/gorm"
)

// userCacheTTL bounds how stale enrichment and notification lookups may be.
const userCacheTTL = time.Minute

// Service is the task lifecycle manager.
type Service struct {
	tasks      *store.TaskStore
	users      *store.UserStore
	engine     *timer.Engine
	dispatcher notify.Dispatcher
	userCache  *cache.TTLCache[string, models.User]
}

// NewService wires a lifecycle service over the given connection. A nil
// dispatcher disables notifications.
func NewService(db *gorm.DB, dispatcher notify.Dispatcher) *Service {
	taskStore := store.NewTaskStore(db)
	return &Service{
		tasks:      taskStore,
		users:      store.NewUserStore(db),
		engine:     timer.NewEngine(taskStore),
		dispatcher: dispatcher,
		userCache:  cache.NewTTLCache[string, models.User](),
	}
}

// Users exposes the user store for the auth handlers.
func (s *Service) Users() *store.UserStore {
	return s.users
}

// resolveUser looks a user up through the short-lived cache.
func (s *Service) resolveUser(id string) (models.User, bool) {
	if u, ok := s.userCache.Get(id); ok {
		return u, true
	}
	u, err := s.users.FindByID(id)
	if err != nil {
		return models.User{}, false
	}
	s.userCache.Set(id, *u, userCacheTTL)
	return *u, true
}

// actorUser returns the acting user's record, falling back to the token
// snapshot if the record is gone. Historical references to users are weak;
// a deleted actor can still act on what their token allows.
func (s *Service) actorUser(actor models.Actor) models.User {
	if u, ok := s.resolveUser(actor.ID); ok {
		return u
	}
	return models.User{ID: actor.ID, Name: actor.Name, Role: actor.Role}
}

// notifyUsers dispatches one notification per recipient id, skipping the actor
// and duplicates. Resolution failures just drop that recipient; delivery
// failures are logged inside notify.Send. Nothing here can fail the caller.
func (s *Service) notifyUsers(kind notify.Kind, task *models.Task, actor models.Actor, recipientIDs []string, comment *models.Comment) {
	if s.dispatcher == nil {
		return
	}
	actingUser := s.actorUser(actor)
	seen := map[string]struct{}{actor.ID: {}}
	for _, id := range recipientIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		recipient, ok := s.resolveUser(id)
		if !ok {
			continue
		}
		notify.Send(s.dispatcher, notify.Notification{
			Kind:      kind,
			Recipient: recipient,
			Actor:     actingUser,
			Task:      task,
			Comment:   comment,
		})
	}
}

// watchers returns everyone with a stake in the task: assignees plus creator.
func watchers(task *models.Task) []string {
	ids := make([]string, 0, len(task.Assignees)+1)
	ids = append(ids, task.Assignees...)
	ids = append(ids, task.CreatedBy)
	return ids
}
