package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
)

// EmailDispatcher sends notifications over SMTP with small HTML bodies. It is
// deliberately synchronous; Send wraps it in a goroutine.
type EmailDispatcher struct {
	addr string
	from string
	auth smtp.Auth
	tmpl *template.Template
}

// NewEmailDispatcherFromEnv builds a dispatcher from SMTP_HOST, SMTP_PORT,
// SMTP_USER and SMTP_PASS. Returns nil when SMTP_HOST is unset, which callers
// treat as email disabled.
func NewEmailDispatcherFromEnv() *EmailDispatcher {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &EmailDispatcher{
		addr: host + ":" + port,
		from: fmt.Sprintf("TaskFlow <%s>", user),
		auth: auth,
		tmpl: template.Must(template.New("email").Parse(emailBody)),
	}
}

// Dispatch implements Dispatcher.
func (d *EmailDispatcher) Dispatch(n Notification) error {
	var body bytes.Buffer
	if err := d.tmpl.Execute(&body, n); err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", d.from)
	fmt.Fprintf(&msg, "To: %s\r\n", n.Recipient.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subjectFor(n))
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.Write(body.Bytes())

	return smtp.SendMail(d.addr, d.auth, d.from, []string{n.Recipient.Email}, msg.Bytes())
}

func subjectFor(n Notification) string {
	switch n.Kind {
	case KindWelcome:
		return "Welcome to TaskFlow - Your Account is Ready!"
	case KindTaskAssigned:
		return "New Task Assigned: " + n.Task.Title
	case KindTaskUpdated:
		return "Task Updated: " + n.Task.Title
	case KindTaskCompleted:
		return "Task Completed: " + n.Task.Title
	case KindTaskComment:
		return "New Comment on: " + n.Task.Title
	}
	return "TaskFlow Notification"
}

const emailBody = `<html><body>
<p>Hi {{.Recipient.Name}},</p>
{{if eq .Kind "welcome"}}
<p>Welcome to TaskFlow! Your account has been created successfully.</p>
{{else if eq .Kind "task_assigned"}}
<p>{{.Actor.Name}} assigned you a new task: <strong>{{.Task.Title}}</strong>.</p>
{{else if eq .Kind "task_updated"}}
<p>{{.Actor.Name}} updated the task <strong>{{.Task.Title}}</strong>.</p>
{{else if eq .Kind "task_completed"}}
<p>{{.Actor.Name}} completed the task <strong>{{.Task.Title}}</strong>.</p>
{{else if eq .Kind "task_comment"}}
<p>{{.Actor.Name}} commented on <strong>{{.Task.Title}}</strong>:</p>
<blockquote>{{.Comment.Content}}</blockquote>
{{end}}
{{if .Task}}<p>Status: {{.Task.Status}} &middot; Priority: {{.Task.Priority}}</p>{{end}}
<p>&mdash; TaskFlow</p>
</body></html>`
