package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

var (
	ErrNotConfigured  = errors.New("mailer not configured")
	ErrInvalidMessage = errors.New("invalid message")
)

type Message struct {
	ToEmail string
	ToName  string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
	// Tag groups messages in provider statistics, e.g. "lead" or "reminder".
	Tag string
}

func (m Message) validate() error {
	switch {
	case strings.TrimSpace(m.ToEmail) == "":
		return fmt.Errorf("%w: missing recipient", ErrInvalidMessage)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: missing subject", ErrInvalidMessage)
	case strings.TrimSpace(m.HTML) == "" && strings.TrimSpace(m.Text) == "":
		return fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}
	return nil
}

type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
	Name() string
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer returns nil when no host or sender is configured.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	if strings.TrimSpace(host) == "" || strings.TrimSpace(from) == "" {
		return nil
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Name() string { return "smtp" }

func (m *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	if m == nil {
		return "", ErrNotConfigured
	}
	if err := msg.validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.dialer.Host)
	gm := buildSMTPMessage(m.from, id, msg)

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(gm) }()
	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("smtp send failed: %w", err)
		}
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func buildSMTPMessage(from, id string, msg Message) *gomail.Message {
	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	if msg.ToName != "" {
		gm.SetAddressHeader("To", msg.ToEmail, msg.ToName)
	} else {
		gm.SetHeader("To", msg.ToEmail)
	}
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	if msg.Tag != "" {
		gm.SetHeader("X-Tag", msg.Tag)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetHeader("Message-ID", id)
	gm.SetDateHeader("Date", time.Now())
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			gm.AddAlternative("text/html", msg.HTML)
		}
	} else {
		gm.SetBody("text/html", msg.HTML)
	}
	return gm
}

// Fallback tries each configured mailer in order until one accepts the
// message.
type Fallback struct {
	mailers []Mailer
}

// NewFallback keeps only the configured providers, Brevo first.
func NewFallback(brevo *BrevoClient, smtp *SMTPMailer) *Fallback {
	f := &Fallback{}
	if brevo != nil {
		f.mailers = append(f.mailers, brevo)
	}
	if smtp != nil {
		f.mailers = append(f.mailers, smtp)
	}
	return f
}

func (f *Fallback) Configured() bool { return f != nil && len(f.mailers) > 0 }

func (f *Fallback) Name() string {
	if !f.Configured() {
		return "none"
	}
	names := make([]string, 0, len(f.mailers))
	for _, m := range f.mailers {
		names = append(names, m.Name())
	}
	return strings.Join(names, ",")
}

func (f *Fallback) Send(ctx context.Context, msg Message) (string, error) {
	if !f.Configured() {
		return "", ErrNotConfigured
	}
	var errs []error
	for _, m := range f.mailers {
		id, err := m.Send(ctx, msg)
		if err == nil {
			return id, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", m.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}
