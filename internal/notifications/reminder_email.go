package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

const reminderTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Content reminder</p>
  <h2>{{.Title}}</h2>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  <ul>
    <li>Channel: {{.Channel}}</li>
    <li>Due: {{.Due}}</li>
    <li>Status: {{.When}}</li>
  </ul>
  {{if .Link}}<p><a href="{{.Link}}">Open the content calendar</a></p>{{end}}
</body>
</html>`

var reminderTmpl = template.Must(template.New("content_reminder").Parse(reminderTemplate))

type ReminderData struct {
	Title       string
	Description string
	Channel     string
	Due         string
	DaysUntil   int
	Link        string
}

// When renders DaysUntil for people.
func (d ReminderData) When() string {
	switch {
	case d.DaysUntil < 0:
		return fmt.Sprintf("overdue by %d day(s)", -d.DaysUntil)
	case d.DaysUntil == 0:
		return "due today"
	case d.DaysUntil == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", d.DaysUntil)
	}
}

// BuildReminder renders the reminder email for one calendar entry.
func BuildReminder(to string, data ReminderData) (Message, error) {
	var buf bytes.Buffer
	if err := reminderTmpl.Execute(&buf, data); err != nil {
		return Message{}, err
	}
	subject := fmt.Sprintf("[%s] %s (%s)", data.Channel, data.Title, data.When())
	text := strings.Join([]string{data.Title, data.Description, "Due: " + data.Due, data.When()}, "\n")
	return Message{
		ToEmail: to,
		Subject: subject,
		HTML:    buf.String(),
		Text:    text,
		Tag:     "reminder",
	}, nil
}
