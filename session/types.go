package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is one learning session of an owner. A session is active while
// EndedAt is nil; ending is one-way.
type Session struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	StartedAt     time.Time
	EndedAt       *time.Time
	Metadata      map[string]string
	TotalProblems int
	TotalMinutes  int
	Subjects      []string
}

func (s *Session) Active() bool {
	return s.EndedAt == nil
}

func (s *Session) clone() *Session {
	cp := *s
	if s.EndedAt != nil {
		endedAt := *s.EndedAt
		cp.EndedAt = &endedAt
	}
	cp.Metadata = make(map[string]string, len(s.Metadata))
	for k, v := range s.Metadata {
		cp.Metadata[k] = v
	}
	cp.Subjects = append([]string(nil), s.Subjects...)
	return &cp
}

// ActivityDelta is merged into a session by RecordActivity.
type ActivityDelta struct {
	Problems int
	Minutes  int
	Subjects []string
}

// SessionRepo persists sessions. Get returns nil without error when the
// session does not exist.
type SessionRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Session, error)
	ListOpen(ctx context.Context) ([]*Session, error)
	Save(ctx context.Context, sess *Session) error
}

const (
	SecurityLevelStandard = "standard"

	EndReasonLogout          = "logout"
	EndReasonSecurityTimeout = "security_timeout"
)

// MaxSessionAge is how long a session may stay open before security
// validation force-ends it.
const MaxSessionAge = 60 * time.Minute
