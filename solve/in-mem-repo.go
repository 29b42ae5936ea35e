package solve

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemSubmRepo is an in-memory SubmRepo for tests and local
// development.
type InMemSubmRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*Submission
}

func NewInMemSubmRepo() *InMemSubmRepo {
	return &InMemSubmRepo{rows: make(map[uuid.UUID]*Submission)}
}

func (r *InMemSubmRepo) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subm, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return subm.clone(), nil
}

func (r *InMemSubmRepo) List(ctx context.Context, ownerID uuid.UUID) ([]Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Submission, 0)
	for _, subm := range r.rows {
		if subm.OwnerID == ownerID {
			res = append(res, *subm.clone())
		}
	}
	return res, nil
}

func (r *InMemSubmRepo) Save(ctx context.Context, subm *Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[subm.ID] = subm.clone()
	return nil
}
