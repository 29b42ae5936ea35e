package solve

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/luminara-app/backend/srvcerr"
)

// GetSubm returns the submission with the given id. When owner is
// non-nil the lookup is scoped to that owner: someone else's submission
// reports not found rather than confirming it exists.
func (s *Service) GetSubm(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*Submission, error) {
	subm, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	if subm == nil {
		return nil, newErrSubmNotFound()
	}
	if owner != nil && subm.OwnerID != *owner {
		return nil, newErrSubmNotFound()
	}
	return subm, nil
}

// ListFilter narrows a submission listing. Zero fields match anything.
type ListFilter struct {
	Topic      string
	Difficulty Difficulty
	Status     Status
}

// ListSubms returns the owner's submissions, newest first, narrowed by
// the filter.
func (s *Service) ListSubms(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Submission, error) {
	all, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	res := make([]Submission, 0, len(all))
	for _, subm := range all {
		if filter.Topic != "" && subm.Topic != filter.Topic {
			continue
		}
		if filter.Difficulty != "" && subm.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Status != "" && subm.Status != filter.Status {
			continue
		}
		res = append(res, subm)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}
