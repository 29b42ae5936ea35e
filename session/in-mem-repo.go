package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type InMemSessionRepo struct {
	lock     sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewInMemSessionRepo() *InMemSessionRepo {
	return &InMemSessionRepo{
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (m *InMemSessionRepo) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return sess.clone(), nil
}

func (m *InMemSessionRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var out []*Session
	for _, sess := range m.sessions {
		if sess.OwnerID == ownerID {
			out = append(out, sess.clone())
		}
	}
	return out, nil
}

func (m *InMemSessionRepo) ListOpen(ctx context.Context) ([]*Session, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var out []*Session
	for _, sess := range m.sessions {
		if sess.Active() {
			out = append(out, sess.clone())
		}
	}
	return out, nil
}

func (m *InMemSessionRepo) Save(ctx context.Context, sess *Session) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.sessions[sess.ID] = sess.clone()
	return nil
}
