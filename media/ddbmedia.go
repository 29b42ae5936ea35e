package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// MediaRow is the DynamoDB shape of a media record. ListByOwner relies
// on a global secondary index named owner_uuid-index with owner_uuid as
// its hash key.
type MediaRow struct {
	Id        string     `dynamo:"id,hash"` // Primary key
	OwnerUuid string     `dynamo:"owner_uuid" index:"owner_uuid-index,hash"`
	Kind      string     `dynamo:"kind"`
	MimeType  string     `dynamo:"mime_type"`
	SizeBytes int        `dynamo:"size_bytes"`
	Status    string     `dynamo:"status"`
	S3Key     string     `dynamo:"s3_key"`
	Url       string     `dynamo:"url,omitempty"`
	CreatedAt time.Time  `dynamo:"created_at"`
	DeletedAt *time.Time `dynamo:"deleted_at,omitempty"`
	Version   int        `dynamo:"version"` // For optimistic locking
}

// DynamoDbMediaTable persists media records in a DynamoDB table.
type DynamoDbMediaTable struct {
	ddbClient  *dynamodb.Client
	tableName  string
	mediaTable *dynamo.Table
}

func NewDynamoDbMediaTable(ddbClient *dynamodb.Client, tableName string) *DynamoDbMediaTable {
	ddb := &DynamoDbMediaTable{
		ddbClient: ddbClient,
		tableName: tableName,
	}
	db := dynamo.NewFromIface(ddb.ddbClient)
	table := db.Table(ddb.tableName)
	ddb.mediaTable = &table

	return ddb
}

func (ddb *DynamoDbMediaTable) Get(ctx context.Context, id uuid.UUID) (*Media, error) {
	row := new(MediaRow)

	err := ddb.mediaTable.Get("id", id.String()).One(ctx, row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil // Media not found
		}
		return nil, err
	}

	return rowToMedia(row)
}

func (ddb *DynamoDbMediaTable) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Media, error) {
	var rows []*MediaRow
	err := ddb.mediaTable.Get("owner_uuid", ownerID.String()).
		Index("owner_uuid-index").
		All(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rowsToMedia(rows)
}

func (ddb *DynamoDbMediaTable) ListDeleted(ctx context.Context, cutoff time.Time) ([]Media, error) {
	var rows []*MediaRow
	err := ddb.mediaTable.Scan().
		Filter("attribute_exists($) AND $ < ?", "deleted_at", "deleted_at", cutoff).
		All(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rowsToMedia(rows)
}

func (ddb *DynamoDbMediaTable) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]Media, error) {
	var rows []*MediaRow
	err := ddb.mediaTable.Scan().
		Filter("$ = ? AND attribute_not_exists($) AND $ < ?",
			"status", string(StatusPending), "deleted_at", "created_at", cutoff).
		All(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rowsToMedia(rows)
}

// Save writes a media record with optimistic locking.
func (ddb *DynamoDbMediaTable) Save(ctx context.Context, m *Media) error {
	row, version, err := mediaToRow(ctx, ddb, m)
	if err != nil {
		return err
	}

	put := ddb.mediaTable.Put(row).If("attribute_not_exists(version) OR version = ?", version-1)
	return put.Run(ctx)
}

func (ddb *DynamoDbMediaTable) Delete(ctx context.Context, id uuid.UUID) error {
	return ddb.mediaTable.Delete("id", id.String()).Run(ctx)
}

func mediaToRow(ctx context.Context, ddb *DynamoDbMediaTable, m *Media) (*MediaRow, int, error) {
	// the domain type carries no version; read it back to build the
	// conditional write
	version := 1
	existing := new(MediaRow)
	err := ddb.mediaTable.Get("id", m.ID.String()).One(ctx, existing)
	if err == nil {
		version = existing.Version + 1
	} else if !errors.Is(err, dynamo.ErrNotFound) {
		return nil, 0, err
	}

	return &MediaRow{
		Id:        m.ID.String(),
		OwnerUuid: m.OwnerID.String(),
		Kind:      string(m.Kind),
		MimeType:  m.MimeType,
		SizeBytes: m.SizeBytes,
		Status:    string(m.Status),
		S3Key:     m.S3Key,
		Url:       m.Url,
		CreatedAt: m.CreatedAt,
		DeletedAt: m.DeletedAt,
		Version:   version,
	}, version, nil
}

func rowToMedia(row *MediaRow) (*Media, error) {
	id, err := uuid.Parse(row.Id)
	if err != nil {
		return nil, fmt.Errorf("invalid media id in row: %w", err)
	}
	ownerID, err := uuid.Parse(row.OwnerUuid)
	if err != nil {
		return nil, fmt.Errorf("invalid owner uuid in row: %w", err)
	}

	return &Media{
		ID:        id,
		OwnerID:   ownerID,
		Kind:      MediaKind(row.Kind),
		MimeType:  row.MimeType,
		SizeBytes: row.SizeBytes,
		Status:    MediaStatus(row.Status),
		S3Key:     row.S3Key,
		Url:       row.Url,
		CreatedAt: row.CreatedAt,
		DeletedAt: row.DeletedAt,
	}, nil
}

func rowsToMedia(rows []*MediaRow) ([]Media, error) {
	media := make([]Media, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToMedia(row)
		if err != nil {
			return nil, err
		}
		media = append(media, *rec)
	}
	return media, nil
}
