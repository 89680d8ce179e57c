package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type form struct {
	Slug string   `validate:"omitempty,slug"`
	Date string   `validate:"omitempty,date"`
	Time string   `validate:"omitempty,clock"`
	Days []string `validate:"omitempty,dive,weekday"`
}

func TestCustomTags(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(form{Slug: "local-seo", Date: "2026-03-02", Time: "09:30", Days: []string{"Monday", "friday"}}))

	cases := []struct {
		name  string
		in    form
		field string
		tag   string
	}{
		{"bad slug", form{Slug: "Local SEO"}, "Slug", "slug"},
		{"bad date", form{Date: "03/02/2026"}, "Date", "date"},
		{"bad clock", form{Time: "25:00"}, "Time", "clock"},
		{"bad weekday", form{Days: []string{"funday"}}, "Days[0]", "weekday"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.ValidationErrors(v.Struct(tc.in))
			if assert.Len(t, errs, 1) {
				assert.Equal(t, tc.field, errs[0].Field())
				assert.Equal(t, tc.tag, errs[0].Tag())
			}
		})
	}
}

func TestValidationErrorsNil(t *testing.T) {
	assert.Nil(t, New().ValidationErrors(nil))
}
