package owner

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type InMemOwnerRepo struct {
	lock   sync.Mutex
	owners map[uuid.UUID]OwnerRecord
}

func NewInMemOwnerRepo() *InMemOwnerRepo {
	return &InMemOwnerRepo{
		owners: make(map[uuid.UUID]OwnerRecord),
	}
}

func (m *InMemOwnerRepo) Get(ctx context.Context, id uuid.UUID) (*OwnerRecord, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	rec, ok := m.owners[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *InMemOwnerRepo) List(ctx context.Context) ([]*OwnerRecord, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	records := make([]*OwnerRecord, 0, len(m.owners))
	for _, rec := range m.owners {
		cp := rec
		records = append(records, &cp)
	}
	return records, nil
}

func (m *InMemOwnerRepo) Save(ctx context.Context, rec *OwnerRecord) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	rec.Version++
	m.owners[rec.UUID] = *rec
	return nil
}
