// Package schedule evaluates content recurrence rules into concrete due times.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

type Frequency string

const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

var (
	ErrInvalidDate       = errors.New("invalid date format")
	ErrInvalidTime       = errors.New("invalid time format")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidWeekday    = errors.New("invalid weekday")
	ErrMissingDays       = errors.New("weekly schedules need at least one day")
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")
)

// DefaultAnchor is the Monday biweekly cadences count from when a channel
// sets no anchor of its own.
const DefaultAnchor = "2024-01-01"

// Channel is the recurrence rule of one content channel.
type Channel struct {
	Enabled    bool      `bson:"enabled" json:"enabled" yaml:"enabled"`
	Frequency  Frequency `bson:"frequency" json:"frequency" yaml:"frequency" validate:"omitempty,oneof=daily weekly biweekly monthly"`
	Days       []string  `bson:"days" json:"days" yaml:"days" validate:"omitempty,dive,weekday"`
	DayOfMonth int       `bson:"dayOfMonth,omitempty" json:"dayOfMonth,omitempty" yaml:"dayOfMonth,omitempty" validate:"omitempty,min=1,max=31"`
	Time       string    `bson:"time" json:"time" yaml:"time" validate:"omitempty,clock"`
	Anchor     string    `bson:"anchor,omitempty" json:"anchor,omitempty" yaml:"anchor,omitempty" validate:"omitempty,date"`
}

// Check reports whether an enabled channel describes a usable rule.
func (c Channel) Check() error {
	if !c.Enabled {
		return nil
	}
	if _, err := ParseClockToMinutes(c.Time); err != nil {
		return err
	}
	switch c.Frequency {
	case Daily:
	case Weekly, Biweekly:
		if len(c.Days) == 0 {
			return ErrMissingDays
		}
		if _, err := weekdaySet(c.Days); err != nil {
			return err
		}
		if c.Anchor != "" {
			if _, err := ParseDate(c.Anchor, time.UTC); err != nil {
				return err
			}
		}
	case Monthly:
		if c.DayOfMonth < 1 || c.DayOfMonth > 31 {
			return ErrInvalidDayOfMonth
		}
	default:
		return ErrInvalidFrequency
	}
	return nil
}

// Occurrences returns the due times of c in [from, until), ascending, as
// wall-clock times in loc. A disabled or malformed channel has none.
func Occurrences(c Channel, from, until time.Time, loc *time.Location) []time.Time {
	if !c.Enabled || !until.After(from) || c.Check() != nil {
		return nil
	}
	minutes, _ := ParseClockToMinutes(c.Time)
	days, _ := weekdaySet(c.Days)
	anchor := weekStart(mustAnchor(c.Anchor, loc))

	out := make([]time.Time, 0)
	start := midnight(from.In(loc))
	for day := start; day.Before(until); day = day.AddDate(0, 0, 1) {
		if !matches(c, day, days, anchor) {
			continue
		}
		due := time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc)
		if due.Before(from) || !due.Before(until) {
			continue
		}
		out = append(out, due)
	}
	return out
}

// Next returns the first due time at or after from, looking at most one
// year ahead.
func Next(c Channel, from time.Time, loc *time.Location) (time.Time, bool) {
	occ := Occurrences(c, from, from.AddDate(1, 0, 1), loc)
	if len(occ) == 0 {
		return time.Time{}, false
	}
	return occ[0], true
}

func matches(c Channel, day time.Time, days map[time.Weekday]bool, anchor time.Time) bool {
	switch c.Frequency {
	case Daily:
		return true
	case Weekly:
		return days[day.Weekday()]
	case Biweekly:
		if !days[day.Weekday()] {
			return false
		}
		weeks := int(math.Floor(weekStart(day).Sub(anchor).Hours()/24+0.5)) / 7
		return weeks%2 == 0
	case Monthly:
		return day.Day() == clampDay(c.DayOfMonth, day.Year(), day.Month())
	}
	return false
}

// clampDay pins day to the last day of short months.
func clampDay(day, year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

func weekdaySet(names []string) (map[time.Weekday]bool, error) {
	set := make(map[time.Weekday]bool, len(names))
	for _, name := range names {
		d, ok := ParseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
		}
		set[d] = true
	}
	return set, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full English weekday names in any case.
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// SortWeekdays orders day names Monday first and drops duplicates.
func SortWeekdays(names []string) []string {
	seen := map[time.Weekday]bool{}
	for _, n := range names {
		if d, ok := ParseWeekday(n); ok {
			seen[d] = true
		}
	}
	out := make([]time.Weekday, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return (out[i]+6)%7 < (out[j]+6)%7 })
	names = make([]string, 0, len(out))
	for _, d := range out {
		names = append(names, strings.ToLower(d.String()))
	}
	return names
}

func mustAnchor(value string, loc *time.Location) time.Time {
	if value == "" {
		value = DefaultAnchor
	}
	t, err := ParseDate(value, loc)
	if err != nil {
		t, _ = ParseDate(DefaultAnchor, loc)
	}
	return t
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekStart is the Monday on or before t.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return midnight(t).AddDate(0, 0, -offset)
}

// DaysUntil is the number of whole days, rounded up, from now until due.
// Negative values mean due has passed.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// Classify reports how close a due time is: overdue once it has passed by a
// day or more, due soon within the next three days.
func Classify(due, now time.Time) (days int, overdue, dueSoon bool) {
	days = DaysUntil(due, now)
	return days, days < 0, days >= 0 && days <= 3
}

func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func ParseClockToMinutes(timeStr string) (int, error) {
	tm, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return tm.Hour()*60 + tm.Minute(), nil
}
