package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrevoClientRequiresKeyAndSender(t *testing.T) {
	assert.Nil(t, NewBrevoClient("", "a@b.c", "", false))
	assert.Nil(t, NewBrevoClient("key", " ", "", false))
	c := NewBrevoClient("key", "a@b.c", "", false)
	require.NotNil(t, c)
	assert.Equal(t, "a@b.c", c.sender.Name)
}

func TestBrevoSend(t *testing.T) {
	var got brevoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc@brevo>"}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("key", "team@agency.example", "Agency", true)
	c.endpoint = srv.URL

	id, err := c.Send(context.Background(), Message{
		ToEmail: "ops@agency.example", ReplyTo: "ana@lonestar.example", Subject: "Hi",
		HTML: "<p>x</p>", Text: "x", Tag: "lead",
	})
	require.NoError(t, err)
	assert.Equal(t, "<abc@brevo>", id)
	assert.Equal(t, "Agency", got.Sender.Name)
	assert.Equal(t, "drop", got.Headers["X-Sib-Sandbox"])
	require.Len(t, got.To, 1)
	assert.Equal(t, "ops@agency.example", got.To[0].Email)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "ana@lonestar.example", got.ReplyTo.Email)
	assert.Equal(t, []string{"lead"}, got.Tags)
	assert.Equal(t, "x", got.TextContent)
}

func TestBrevoSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewBrevoClient("bad", "team@agency.example", "", false)
	c.endpoint = srv.URL
	_, err := c.Send(context.Background(), Message{ToEmail: "x@y.z", Subject: "s", HTML: "h"})
	var apiErr *BrevoError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "unauthorized", apiErr.Code)
	assert.Contains(t, err.Error(), "status=401")
}

func TestBrevoSendValidatesMessage(t *testing.T) {
	c := NewBrevoClient("key", "team@agency.example", "", false)
	_, err := c.Send(context.Background(), Message{Subject: "s", HTML: "h"})
	assert.ErrorIs(t, err, ErrInvalidMessage)
	_, err = c.Send(context.Background(), Message{ToEmail: "x@y.z", HTML: "h"})
	assert.ErrorIs(t, err, ErrInvalidMessage)
	_, err = c.Send(context.Background(), Message{ToEmail: "x@y.z", Subject: "s"})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	var nilClient *BrevoClient
	_, err = nilClient.Send(context.Background(), Message{ToEmail: "x@y.z", Subject: "s", HTML: "h"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

type fakeMailer struct {
	name  string
	err   error
	calls int
}

func (f *fakeMailer) Name() string { return f.name }

func (f *fakeMailer) Send(ctx context.Context, msg Message) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.name + "-id", nil
}

func TestFallbackOrder(t *testing.T) {
	first := &fakeMailer{name: "first", err: errors.New("down")}
	second := &fakeMailer{name: "second"}
	f := &Fallback{mailers: []Mailer{first, second}}

	id, err := f.Send(context.Background(), Message{ToEmail: "x@y.z"})
	require.NoError(t, err)
	assert.Equal(t, "second-id", id)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, "first,second", f.Name())
}

func TestFallbackAllFail(t *testing.T) {
	f := &Fallback{mailers: []Mailer{&fakeMailer{name: "a", err: errors.New("x")}, &fakeMailer{name: "b", err: errors.New("y")}}}
	_, err := f.Send(context.Background(), Message{ToEmail: "x@y.z"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: x")
	assert.Contains(t, err.Error(), "b: y")
}

func TestFallbackNotConfigured(t *testing.T) {
	f := NewFallback(nil, nil)
	assert.False(t, f.Configured())
	_, err := f.Send(context.Background(), Message{ToEmail: "x@y.z"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	f = NewFallback(nil, NewSMTPMailer("smtp.example", 587, "u", "p", "team@agency.example"))
	assert.True(t, f.Configured())
	assert.Equal(t, "smtp", f.Name())
	assert.Nil(t, NewSMTPMailer("", 587, "", "", "x@y.z"))
}

func TestBuildSMTPMessageHeaders(t *testing.T) {
	gm := buildSMTPMessage("team@agency.example", "<id@host>", Message{ToEmail: "ops@agency.example", ToName: "Ops", Subject: "Due", HTML: "<p>x</p>", Text: "x"})
	assert.Equal(t, []string{"team@agency.example"}, gm.GetHeader("From"))
	assert.Equal(t, []string{"Due"}, gm.GetHeader("Subject"))
	assert.Equal(t, []string{"<id@host>"}, gm.GetHeader("Message-ID"))
	require.Len(t, gm.GetHeader("To"), 1)
	assert.Contains(t, gm.GetHeader("To")[0], "ops@agency.example")
	assert.Empty(t, gm.GetHeader("Reply-To"))

	gm = buildSMTPMessage("team@agency.example", "<id@host>", Message{ToEmail: "sales@agency.example", ReplyTo: "ana@lonestar.example", Subject: "Lead", Text: "x", Tag: "lead"})
	assert.Equal(t, []string{"ana@lonestar.example"}, gm.GetHeader("Reply-To"))
	assert.Equal(t, []string{"lead"}, gm.GetHeader("X-Tag"))
}

func TestBuildReminder(t *testing.T) {
	msg, err := BuildReminder("ops@agency.example", ReminderData{
		Title: "Weekly LinkedIn post", Channel: "linkedIn", Due: "2026-02-10 09:00", DaysUntil: -2,
		Description: "<b>escape me</b>",
	})
	require.NoError(t, err)
	assert.Equal(t, "[linkedIn] Weekly LinkedIn post (overdue by 2 day(s))", msg.Subject)
	assert.Contains(t, msg.HTML, "&lt;b&gt;escape me&lt;/b&gt;")
	assert.True(t, strings.Contains(msg.Text, "Due: 2026-02-10 09:00"))

	assert.Equal(t, "due today", ReminderData{}.When())
	assert.Equal(t, "due tomorrow", ReminderData{DaysUntil: 1}.When())
	assert.Equal(t, "due in 5 days", ReminderData{DaysUntil: 5}.When())
}

func TestBuildLeadMessages(t *testing.T) {
	data := LeadData{
		ID: "lead-1", Company: "Lone Star Sparkling", Name: "Ana", Email: "ana@lonestar.example",
		Service: "Product Sampling", Location: "Austin, TX", Message: "<script>x</script> sampling at 5 stores",
		Source: "landing", LandingPath: "/services/product-sampling/austin-tx", SiteName: "Agency",
	}

	alert, err := BuildLeadNotification("sales@agency.example", data)
	require.NoError(t, err)
	assert.Equal(t, "sales@agency.example", alert.ToEmail)
	assert.Equal(t, "New lead: Lone Star Sparkling (Product Sampling)", alert.Subject)
	assert.Contains(t, alert.HTML, "/services/product-sampling/austin-tx")
	assert.NotContains(t, alert.HTML, "<script>")
	assert.NotContains(t, alert.HTML, "Budget")
	assert.Equal(t, "ana@lonestar.example", alert.ReplyTo)
	assert.Equal(t, "lead", alert.Tag)

	ack, err := BuildLeadConfirmation(data)
	require.NoError(t, err)
	assert.Equal(t, "ana@lonestar.example", ack.ToEmail)
	assert.Equal(t, "Ana", ack.ToName)
	assert.Contains(t, ack.HTML, "about Product Sampling")
	assert.Contains(t, ack.Text, "lead-1")
}
