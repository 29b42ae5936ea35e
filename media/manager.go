package media

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/wailsapp/mimetype"

	"github.com/luminara-app/backend/secgate"
	"github.com/luminara-app/backend/srvcerr"
)

// MaxUploadBytes is the largest accepted upload body.
const MaxUploadBytes = 10 << 20

// maxImageWidth caps the stored width of uploaded images. Wider images
// are downscaled before they reach object storage.
const maxImageWidth = 600

// allowedMimeTypes maps accepted MIME types to the kind of media they
// produce. Anything else is rejected before touching object storage.
var allowedMimeTypes = map[string]MediaKind{
	"image/jpeg": KindImage,
	"image/png":  KindImage,
	"audio/mpeg": KindVoice,
	"audio/wav":  KindVoice,
	"audio/ogg":  KindVoice,
}

// BlobStore is the object storage surface the manager depends on.
// Satisfied by *s3bucket.S3Bucket.
type BlobStore interface {
	Upload(content []byte, key string, mediaType string) (string, error)
	Delete(key string) error
}

type Manager struct {
	repo    MediaRepo
	blob    BlobStore
	gateway *secgate.Gateway
	logger  *slog.Logger
}

func NewManager(repo MediaRepo, blob BlobStore, gateway *secgate.Gateway) *Manager {
	return &Manager{
		repo:    repo,
		blob:    blob,
		gateway: gateway,
		logger:  slog.Default().With("module", "media"),
	}
}

// Upload validates and stores an attachment for the given owner. Images
// are recompressed to capped-width JPEG before the blob write; voice
// clips are stored as received. The record is persisted as pending
// before the upload so an interrupted attempt leaves a visible trace,
// then flipped to completed or failed.
//
// S3 key format: "media-uploads/<media-id>/<sha2>.<ext>". The media id
// component keeps keys unique per record so the expiry sweep can delete
// a blob without checking for other records with the same content.
func (m *Manager) Upload(ctx context.Context, ownerID uuid.UUID, content []byte) (*Media, error) {
	if len(content) == 0 {
		return nil, newErrMediaEmpty()
	}
	if len(content) > MaxUploadBytes {
		return nil, newErrMediaTooLarge().
			SetDebug(fmt.Errorf("received %d bytes, limit is %d", len(content), MaxUploadBytes))
	}

	mType := mimetype.Detect(content)
	if mType == nil {
		return nil, newErrMediaTypeNotAllowed()
	}
	kind, ok := allowedMimeTypes[mType.String()]
	if !ok {
		return nil, newErrMediaTypeNotAllowed().
			SetDebug(fmt.Errorf("detected mime type %s", mType.String()))
	}

	stored := content
	if kind == KindImage {
		compressed, err := compressImage(content, maxImageWidth)
		if err != nil {
			return nil, newErrMediaCorrupt().SetDebug(err)
		}
		stored = compressed
		mType = mimetype.Detect(stored)
	}

	id := uuid.New()
	rec := &Media{
		ID:        id,
		OwnerID:   ownerID,
		Kind:      kind,
		MimeType:  mType.String(),
		SizeBytes: len(stored),
		Status:    StatusPending,
		S3Key:     fmt.Sprintf("%s/%s/%s%s", "media-uploads", id, secgate.ContentHash(string(stored)), mType.Extension()),
		CreatedAt: time.Now().UTC(),
	}
	if err := m.repo.Save(ctx, rec); err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	url, err := m.blob.Upload(stored, rec.S3Key, rec.MimeType)
	if err != nil {
		rec.Status = StatusFailed
		if saveErr := m.repo.Save(ctx, rec); saveErr != nil {
			m.logger.Warn("failed to mark media record as failed",
				"media_id", rec.ID, "error", saveErr)
		}
		return nil, newErrMediaUploadFailed().SetDebug(err)
	}

	rec.Status = StatusCompleted
	rec.Url = url
	if err := m.repo.Save(ctx, rec); err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	actor := ownerID.String()
	resID := rec.ID.String()
	m.gateway.LogEvent(ctx, &actor, "media_uploaded", "media", &resID, nil, map[string]any{
		"kind":       string(rec.Kind),
		"mime_type":  rec.MimeType,
		"size_bytes": rec.SizeBytes,
	})

	m.logger.Info("stored media upload",
		"media_id", rec.ID,
		"owner_uuid", ownerID,
		"kind", rec.Kind,
		"size_bytes", rec.SizeBytes)

	return rec, nil
}

// List returns the owner's media, newest first. Soft-deleted records are
// excluded.
func (m *Manager) List(ctx context.Context, ownerID uuid.UUID) ([]Media, error) {
	all, err := m.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	res := make([]Media, 0, len(all))
	for _, rec := range all {
		if rec.DeletedAt != nil {
			continue
		}
		res = append(res, rec)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

// SoftDelete hides the media from its owner. The blob stays in object
// storage until the expiry sweep collects it. Media owned by someone
// else reports not found rather than confirming it exists.
func (m *Manager) SoftDelete(ctx context.Context, ownerID uuid.UUID, mediaID uuid.UUID) error {
	rec, err := m.repo.Get(ctx, mediaID)
	if err != nil {
		return srvcerr.ErrInternalSE().SetDebug(err)
	}
	if rec == nil || rec.OwnerID != ownerID {
		return newErrMediaNotFound()
	}
	if rec.DeletedAt != nil {
		return nil
	}

	now := time.Now().UTC()
	rec.DeletedAt = &now
	if err := m.repo.Save(ctx, rec); err != nil {
		return srvcerr.ErrInternalSE().SetDebug(err)
	}

	actor := ownerID.String()
	resID := rec.ID.String()
	m.gateway.LogEvent(ctx, &actor, "media_deleted", "media", &resID,
		map[string]any{"status": string(rec.Status)}, nil)

	return nil
}

// SweepExpired permanently removes records soft-deleted more than
// retention ago, together with their blobs. The blob is deleted first so
// a partial sweep never orphans storage. Records still pending past the
// same window are marked failed; the upload that started them was
// interrupted before it could finish. Returns how many records were
// removed.
func (m *Manager) SweepExpired(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-retention)
	expired, err := m.repo.ListDeleted(ctx, cutoff)
	if err != nil {
		return 0, srvcerr.ErrInternalSE().SetDebug(err)
	}

	removed := 0
	for i := range expired {
		rec := &expired[i]
		if err := m.blob.Delete(rec.S3Key); err != nil {
			m.logger.Warn("failed to delete media blob",
				"media_id", rec.ID, "s3_key", rec.S3Key, "error", err)
			continue
		}
		if err := m.repo.Delete(ctx, rec.ID); err != nil {
			m.logger.Warn("failed to delete media record",
				"media_id", rec.ID, "error", err)
			continue
		}
		removed++
	}

	stuck, err := m.repo.ListPendingBefore(ctx, cutoff)
	if err != nil {
		return removed, srvcerr.ErrInternalSE().SetDebug(err)
	}
	for i := range stuck {
		rec := &stuck[i]
		rec.Status = StatusFailed
		if err := m.repo.Save(ctx, rec); err != nil {
			m.logger.Warn("failed to mark stuck media record",
				"media_id", rec.ID, "error", err)
			continue
		}
		m.logger.Info("marked stuck pending upload as failed",
			"media_id", rec.ID, "owner_uuid", rec.OwnerID)
	}

	if removed > 0 {
		m.logger.Info("swept expired media", "removed", removed)
	}
	return removed, nil
}
