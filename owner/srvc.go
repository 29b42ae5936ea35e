package owner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"

	"github.com/luminara-app/backend/ident"
	"github.com/luminara-app/backend/srvcerr"
)

type OwnerSrvc struct {
	repo   OwnerRepo
	logger *slog.Logger
}

func NewOwnerSrvc(repo OwnerRepo) *OwnerSrvc {
	return &OwnerSrvc{
		repo:   repo,
		logger: slog.Default().With("module", "owner"),
	}
}

// EnsureExists creates a placeholder record for id when none exists yet.
// Submissions can arrive for owners the system has never seen, such as the
// guest owner or a freshly reassigned id, and those still need a row for
// row-level access checks. Safe to call concurrently: losing the write
// race means another request created the owner, which is fine.
func (s *OwnerSrvc) EnsureExists(ctx context.Context, id uuid.UUID) error {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return srvcerr.ErrInternalSE().SetDebug(err)
	}
	if rec != nil {
		return nil
	}

	rec = &OwnerRecord{
		UUID:      id,
		Guest:     id.String() == ident.GuestOwnerID,
		Version:   0,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		if dynamo.IsCondCheckFailed(err) {
			return nil
		}
		return srvcerr.ErrInternalSE().SetDebug(err)
	}

	s.logger.Info("created owner record", "owner_uuid", id, "guest", rec.Guest)
	return nil
}

// Get returns the owner with the given id.
func (s *OwnerSrvc) Get(ctx context.Context, id uuid.UUID) (*Owner, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	if rec == nil {
		return nil, newErrOwnerNotFound()
	}
	return rec.toOwner(), nil
}
