package owner

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Owner is an account that submissions, sessions and media belong to.
// Guest traffic is recorded under a single well-known owner.
type Owner struct {
	UUID      uuid.UUID
	Email     string
	Guest     bool
	CreatedAt time.Time
}

// OwnerRecord is the stored shape of an owner, credential hash included.
// The hash never leaves this package.
type OwnerRecord struct {
	UUID      uuid.UUID
	Email     string
	BcryptPwd []byte
	Guest     bool
	Version   int
	CreatedAt time.Time
}

// OwnerRepo persists owner records. Get returns nil without error when the
// owner does not exist.
type OwnerRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*OwnerRecord, error)
	List(ctx context.Context) ([]*OwnerRecord, error)
	Save(ctx context.Context, rec *OwnerRecord) error
}

func (rec *OwnerRecord) toOwner() *Owner {
	return &Owner{
		UUID:      rec.UUID,
		Email:     rec.Email,
		Guest:     rec.Guest,
		CreatedAt: rec.CreatedAt,
	}
}
