package media

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVoice MediaKind = "voice"
)

type MediaStatus string

const (
	StatusPending   MediaStatus = "pending"
	StatusCompleted MediaStatus = "completed"
	StatusFailed    MediaStatus = "failed"
)

// Media is an uploaded attachment owned by a single owner. The blob
// itself lives in object storage under S3Key; this record tracks its
// lifecycle. DeletedAt marks a soft delete awaiting the expiry sweep.
type Media struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Kind      MediaKind
	MimeType  string
	SizeBytes int
	Status    MediaStatus
	S3Key     string
	Url       string
	CreatedAt time.Time
	DeletedAt *time.Time
}

func (m *Media) clone() *Media {
	if m == nil {
		return nil
	}
	res := *m
	if m.DeletedAt != nil {
		t := *m.DeletedAt
		res.DeletedAt = &t
	}
	return &res
}

type MediaRepo interface {
	// Get returns nil without an error when the media does not exist.
	Get(ctx context.Context, id uuid.UUID) (*Media, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Media, error)
	// ListDeleted returns records soft-deleted before the cutoff.
	ListDeleted(ctx context.Context, cutoff time.Time) ([]Media, error)
	// ListPendingBefore returns pending records created before the cutoff.
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]Media, error)
	Save(ctx context.Context, m *Media) error
	Delete(ctx context.Context, id uuid.UUID) error
}
