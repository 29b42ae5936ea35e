package secgate

import (
	"context"
	"sync"
)

type InMemAuditRepo struct {
	lock   sync.Mutex
	events []AuditEvent
}

func NewInMemAuditRepo() *InMemAuditRepo {
	return &InMemAuditRepo{}
}

func (m *InMemAuditRepo) Append(ctx context.Context, event AuditEvent) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *InMemAuditRepo) List(ctx context.Context, limit int) ([]AuditEvent, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if limit <= 0 || limit > len(m.events) {
		limit = len(m.events)
	}
	out := make([]AuditEvent, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}
