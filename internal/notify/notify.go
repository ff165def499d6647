// Package notify delivers best-effort notifications about task activity.
// Delivery failures are logged and discarded; they never affect the operation
// that triggered them.
package notify

import (
	"log"

	"taskflow-api/internal/models"
)

// Kind identifies what a notification is about.
type Kind string

const (
	KindWelcome       Kind = "welcome"
	KindTaskAssigned  Kind = "task_assigned"
	KindTaskUpdated   Kind = "task_updated"
	KindTaskCompleted Kind = "task_completed"
	KindTaskComment   Kind = "task_comment"
)

// Notification carries fully-populated data for one delivery. Task and Comment
// are nil for kinds that do not concern them.
type Notification struct {
	Kind      Kind
	Recipient models.User
	Actor     models.User
	Task      *models.Task
	Comment   *models.Comment
}

// Dispatcher performs a single delivery.
type Dispatcher interface {
	Dispatch(n Notification) error
}

// Send fires a notification without blocking the caller. Failures are logged
// and dropped. A nil dispatcher disables delivery entirely.
func Send(d Dispatcher, n Notification) {
	if d == nil {
		return
	}
	go func() {
		if err := d.Dispatch(n); err != nil {
			log.Printf("notification %s to %s failed: %v", n.Kind, n.Recipient.Email, err)
		}
	}()
}

// LogDispatcher records deliveries to the process log instead of sending
// anything. Used in development and tests.
type LogDispatcher struct{}

// Dispatch implements Dispatcher.
func (LogDispatcher) Dispatch(n Notification) error {
	subject := ""
	if n.Task != nil {
		subject = n.Task.Title
	}
	log.Printf("notify %s -> %s (%s) %q", n.Kind, n.Recipient.Name, n.Recipient.Email, subject)
	return nil
}
