package notify

import (
	"html/template"
	"strings"
	"testing"

	"taskflow-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectFor(t *testing.T) {
	task := &models.Task{Title: "Ship release"}

	assert.Equal(t, "Welcome to TaskFlow - Your Account is Ready!", subjectFor(Notification{Kind: KindWelcome}))
	assert.Equal(t, "New Task Assigned: Ship release", subjectFor(Notification{Kind: KindTaskAssigned, Task: task}))
	assert.Equal(t, "Task Updated: Ship release", subjectFor(Notification{Kind: KindTaskUpdated, Task: task}))
	assert.Equal(t, "Task Completed: Ship release", subjectFor(Notification{Kind: KindTaskCompleted, Task: task}))
	assert.Equal(t, "New Comment on: Ship release", subjectFor(Notification{Kind: KindTaskComment, Task: task}))
}

func TestEmailBodyRendersEveryKind(t *testing.T) {
	tmpl := template.Must(template.New("email").Parse(emailBody))

	task := &models.Task{Title: "Ship release", Status: models.StatusInProgress, Priority: models.PriorityHigh}
	comment := &models.Comment{Content: "Looks good"}

	cases := []struct {
		kind Kind
		want string
	}{
		{KindWelcome, "Welcome to TaskFlow"},
		{KindTaskAssigned, "assigned you a new task"},
		{KindTaskUpdated, "updated the task"},
		{KindTaskCompleted, "completed the task"},
		{KindTaskComment, "commented on"},
	}
	for _, tc := range cases {
		n := Notification{
			Kind:      tc.kind,
			Recipient: models.User{Name: "Bob", Email: "bob@example.com"},
			Actor:     models.User{Name: "Alice"},
			Comment:   comment,
		}
		if tc.kind != KindWelcome {
			n.Task = task
		}

		var body strings.Builder
		require.NoError(t, tmpl.Execute(&body, n))
		assert.Contains(t, body.String(), "Hi Bob", "kind %s", tc.kind)
		assert.Contains(t, body.String(), tc.want, "kind %s", tc.kind)
	}
}

type failingDispatcher struct{ calls chan struct{} }

func (f failingDispatcher) Dispatch(Notification) error {
	f.calls <- struct{}{}
	return assert.AnError
}

func TestSend_NilDispatcherIsNoop(t *testing.T) {
	Send(nil, Notification{Kind: KindWelcome})
}

func TestSend_FailuresDoNotPropagate(t *testing.T) {
	d := failingDispatcher{calls: make(chan struct{}, 1)}
	Send(d, Notification{Kind: KindTaskUpdated, Recipient: models.User{Email: "x@example.com"}})
	<-d.calls
}
