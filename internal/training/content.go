package training

import (
	"errors"
	"fmt"
)

var ErrInvalidContent = errors.New("invalid module content")

// Kind reports which payload is set. It returns "" unless exactly one is.
func (c ModuleContent) Kind() ModuleType {
	var kind ModuleType
	n := 0
	if c.Video != nil {
		kind, n = TypeVideo, n+1
	}
	if c.Website != nil {
		kind, n = TypeWebsite, n+1
	}
	if c.Quiz != nil {
		kind, n = TypeQuiz, n+1
	}
	if c.Interactive != nil {
		kind, n = TypeInteractive, n+1
	}
	if c.Document != nil {
		kind, n = TypeDocument, n+1
	}
	if n != 1 {
		return ""
	}
	return kind
}

// Validate checks that the module carries one payload of its declared type.
func (m Module) Validate() error {
	kind := m.Content.Kind()
	if kind == "" {
		return fmt.Errorf("%w: module %q must have exactly one payload", ErrInvalidContent, m.ID)
	}
	if kind != m.Type {
		return fmt.Errorf("%w: module %q is %s but carries %s", ErrInvalidContent, m.ID, m.Type, kind)
	}
	if q := m.Content.Quiz; q != nil {
		for i, question := range q.Questions {
			if question.Answer < 0 || question.Answer >= len(question.Options) {
				return fmt.Errorf("%w: module %q question %d answer out of range", ErrInvalidContent, m.ID, i+1)
			}
		}
	}
	return nil
}
