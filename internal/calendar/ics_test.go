package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\,b\;c\\d\nE`, escapeText("a,b;c\\d\nE"))
	assert.Equal(t, `one\ntwo`, escapeText("one\r\ntwo"))
}

func TestFoldKeepsLinesShortAndRunesWhole(t *testing.T) {
	long := "SUMMARY:" + strings.Repeat("é", 100)
	folded := fold(long)
	for _, l := range strings.Split(folded, "\r\n") {
		assert.LessOrEqual(t, len(l), 75)
		assert.True(t, utf8.ValidString(strings.TrimPrefix(l, " ")))
	}
	assert.Equal(t, long, strings.ReplaceAll(folded, "\r\n ", ""))
	assert.Equal(t, "SHORT:x", fold("SHORT:x"))
}

func TestWriteICS(t *testing.T) {
	due := time.Date(2026, 3, 3, 15, 0, 0, 0, time.UTC)
	events := []CalendarEvent{
		{ID: "linkedIn-20260303T1500Z", Type: ChannelLinkedIn, Title: "LinkedIn post, weekly", Description: "Line one\nLine two", DueDate: due, Status: StatusPending},
		{ID: "blog-20260304T1600Z", Type: ChannelBlog, Title: "Blog post", DueDate: due.Add(25 * time.Hour), Status: StatusSkipped},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, Feed{Name: "Agency content", ProdID: "-//Agency//Content Calendar//EN"}, events, due))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT\r\n"))
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VALARM\r\n"))
	assert.Contains(t, out, "DTSTART:20260303T150000Z\r\n")
	assert.Contains(t, out, "DTEND:20260303T153000Z\r\n")
	assert.Contains(t, out, `SUMMARY:LinkedIn post\, weekly`+"\r\n")
	assert.Contains(t, out, `DESCRIPTION:Line one\nLine two`+"\r\n")
	assert.Contains(t, out, "STATUS:CANCELLED\r\n")
	assert.Contains(t, out, "UID:"+EventUID(events[0].ID)+"\r\n")
}

func TestEventUIDStable(t *testing.T) {
	assert.Equal(t, EventUID("blog-1"), EventUID("blog-1"))
	assert.NotEqual(t, EventUID("blog-1"), EventUID("blog-2"))
}

func TestQRCode(t *testing.T) {
	png, err := QRCode("https://agency.example/api/calendar/export", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = QRCode("https://agency.example", 2048)
	assert.ErrorIs(t, err, ErrInvalidQRSize)
}

func TestEventIDAndDraftChannel(t *testing.T) {
	due := time.Date(2026, 3, 3, 9, 0, 0, 0, chicago)
	assert.Equal(t, "linkedIn-20260303T1500Z", EventID(ChannelLinkedIn, due))

	ch, ok := DraftChannel("Case-Studies")
	assert.True(t, ok)
	assert.Equal(t, ChannelCaseStudies, ch)
	_, ok = DraftChannel("newsletter")
	assert.False(t, ok)
}
