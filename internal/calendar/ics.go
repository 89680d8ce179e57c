package calendar

import (
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	icsStamp     = "20060102T150405Z"
	icsLineLimit = 75
	eventLength  = 30 * time.Minute
)

// Feed describes the calendar an export belongs to.
type Feed struct {
	Name   string
	ProdID string
}

// WriteICS renders events as an iCalendar document with CRLF line endings,
// escaped text values and lines folded at 75 octets.
func WriteICS(w io.Writer, feed Feed, events []CalendarEvent, now time.Time) error {
	var b strings.Builder
	line := func(name, value string) {
		b.WriteString(fold(name + ":" + value))
		b.WriteString("\r\n")
	}

	line("BEGIN", "VCALENDAR")
	line("VERSION", "2.0")
	line("PRODID", feed.ProdID)
	line("CALSCALE", "GREGORIAN")
	line("METHOD", "PUBLISH")
	if feed.Name != "" {
		line("X-WR-CALNAME", escapeText(feed.Name))
	}
	line("REFRESH-INTERVAL;VALUE=DURATION", "PT1H")
	line("X-PUBLISHED-TTL", "PT1H")

	stamp := now.UTC().Format(icsStamp)
	for _, ev := range events {
		line("BEGIN", "VEVENT")
		line("UID", EventUID(ev.ID))
		line("DTSTAMP", stamp)
		line("DTSTART", ev.DueDate.UTC().Format(icsStamp))
		line("DTEND", ev.DueDate.Add(eventLength).UTC().Format(icsStamp))
		line("SUMMARY", escapeText(ev.Title))
		if ev.Description != "" {
			line("DESCRIPTION", escapeText(ev.Description))
		}
		line("CATEGORIES", escapeText(ev.Type))
		line("STATUS", icsStatus(ev.Status))
		if ev.Status == StatusPending {
			line("BEGIN", "VALARM")
			line("ACTION", "DISPLAY")
			line("DESCRIPTION", escapeText("Reminder: "+ev.Title))
			line("TRIGGER", "-PT1H")
			line("END", "VALARM")
		}
		line("END", "VEVENT")
	}
	line("END", "VCALENDAR")

	_, err := io.WriteString(w, b.String())
	return err
}

// EventUID is stable per event id so re-imports update rather than
// duplicate entries.
func EventUID(id string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("calendar-event:"+id)).String()
}

func icsStatus(s Status) string {
	if s == StatusSkipped {
		return "CANCELLED"
	}
	return "CONFIRMED"
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", "",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// fold splits a content line into chunks of at most 75 octets joined by
// CRLF and a single space, never inside a UTF-8 sequence.
func fold(s string) string {
	if len(s) <= icsLineLimit {
		return s
	}
	var b strings.Builder
	limit := icsLineLimit
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString("\r\n ")
		s = s[cut:]
		limit = icsLineLimit - 1
	}
	b.WriteString(s)
	return b.String()
}
