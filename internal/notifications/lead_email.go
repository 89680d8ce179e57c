package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

const leadNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New proposal request</h3>
  <p><strong>Company:</strong> {{.Company}}</p>
  <p><strong>Contact:</strong> {{.Name}} &lt;{{.Email}}&gt;{{if .Phone}}, {{.Phone}}{{end}}</p>
  {{if .Service}}<p><strong>Service:</strong> {{.Service}}</p>{{end}}
  {{if .Location}}<p><strong>Location:</strong> {{.Location}}</p>{{end}}
  {{if .EventDate}}<p><strong>Event date:</strong> {{.EventDate}}</p>{{end}}
  {{if .Budget}}<p><strong>Budget:</strong> {{.Budget}}</p>{{end}}
  <p><strong>Source:</strong> {{.Source}}{{if .LandingPath}} ({{.LandingPath}}){{end}}</p>
  <p><strong>Message:</strong><br/>{{.Message}}</p>
  {{if .Link}}<p><a href="{{.Link}}">Open in the dashboard</a></p>{{end}}
</body>
</html>`

const leadConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Thanks for reaching out to {{.SiteName}}. We received your request{{if .Service}} about {{.Service}}{{end}} and will get back to you within one business day.</p>
  <p>Your reference: <strong>{{.ID}}</strong></p>
  <p>Here is what you sent us:</p>
  <p>{{.Message}}</p>
</body>
</html>`

var (
	leadNotificationTmpl = template.Must(template.New("lead_notification").Parse(leadNotificationTemplate))
	leadConfirmationTmpl = template.Must(template.New("lead_confirmation").Parse(leadConfirmationTemplate))
)

type LeadData struct {
	ID          string
	Company     string
	Name        string
	Email       string
	Phone       string
	Service     string
	Location    string
	EventDate   string
	Budget      string
	Message     string
	Source      string
	LandingPath string
	Link        string
	SiteName    string
}

// BuildLeadNotification renders the internal alert for a new lead.
func BuildLeadNotification(to string, data LeadData) (Message, error) {
	var buf bytes.Buffer
	if err := leadNotificationTmpl.Execute(&buf, data); err != nil {
		return Message{}, err
	}
	subject := "New lead: " + data.Company
	if data.Service != "" {
		subject += " (" + data.Service + ")"
	}
	text := strings.Join([]string{
		subject,
		fmt.Sprintf("%s <%s> %s", data.Name, data.Email, data.Phone),
		data.Message,
	}, "\n")
	return Message{ToEmail: to, ReplyTo: data.Email, Subject: subject, HTML: buf.String(), Text: text, Tag: "lead"}, nil
}

// BuildLeadConfirmation renders the acknowledgement sent to the prospect.
func BuildLeadConfirmation(data LeadData) (Message, error) {
	var buf bytes.Buffer
	if err := leadConfirmationTmpl.Execute(&buf, data); err != nil {
		return Message{}, err
	}
	return Message{
		ToEmail: data.Email,
		ToName:  data.Name,
		Subject: "We received your request",
		HTML:    buf.String(),
		Text:    fmt.Sprintf("Hi %s,\nThanks for reaching out to %s. Your reference: %s\n", data.Name, data.SiteName, data.ID),
		Tag:     "lead-confirmation",
	}, nil
}
