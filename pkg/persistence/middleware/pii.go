package middleware

import (
	"context"
	"regexp"

	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/ports"
)

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the free text of answers
// whose question id matches one of the patterns before persisting. Masking
// is one-way: the stored copy never contains the original value.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sess *domain.Session) error {
	// Deep clone to avoid side effects on the in-memory session used by
	// the manager.
	cloned := sess.Clone()
	if cloned.Interview != nil {
		for id, ans := range cloned.Interview.Answers {
			if ans.FreeText == "" || !m.matches(id) {
				continue
			}
			ans.FreeText = "***"
			cloned.Interview.Answers[id] = ans
		}
	}
	return m.next.Save(ctx, cloned)
}

func (m *piiMiddleware) matches(questionID string) bool {
	for _, p := range m.patterns {
		if p.MatchString(questionID) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
