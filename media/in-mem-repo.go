package media

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemMediaRepo is an in-memory MediaRepo for tests and local
// development.
type InMemMediaRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*Media
}

func NewInMemMediaRepo() *InMemMediaRepo {
	return &InMemMediaRepo{rows: make(map[uuid.UUID]*Media)}
}

func (r *InMemMediaRepo) Get(ctx context.Context, id uuid.UUID) (*Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return rec.clone(), nil
}

func (r *InMemMediaRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Media, 0)
	for _, rec := range r.rows {
		if rec.OwnerID == ownerID {
			res = append(res, *rec.clone())
		}
	}
	return res, nil
}

func (r *InMemMediaRepo) ListDeleted(ctx context.Context, cutoff time.Time) ([]Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Media, 0)
	for _, rec := range r.rows {
		if rec.DeletedAt != nil && rec.DeletedAt.Before(cutoff) {
			res = append(res, *rec.clone())
		}
	}
	return res, nil
}

func (r *InMemMediaRepo) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Media, 0)
	for _, rec := range r.rows {
		if rec.Status == StatusPending && rec.DeletedAt == nil && rec.CreatedAt.Before(cutoff) {
			res = append(res, *rec.clone())
		}
	}
	return res, nil
}

func (r *InMemMediaRepo) Save(ctx context.Context, m *Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.ID] = m.clone()
	return nil
}

func (r *InMemMediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}
