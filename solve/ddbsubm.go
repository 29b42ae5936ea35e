package solve

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// SubmissionRow is the DynamoDB shape of a submission. List relies on a
// global secondary index named owner_uuid-index with owner_uuid as its
// hash key.
type SubmissionRow struct {
	Id          string `dynamo:"id,hash"` // Primary key
	OwnerUuid   string `dynamo:"owner_uuid" index:"owner_uuid-index,hash"`
	InputType   string `dynamo:"input_type"`
	Title       string `dynamo:"title"`
	Description string `dynamo:"description,omitempty"`

	TextContent string `dynamo:"text_content,omitempty"`
	ImageUrl    string `dynamo:"image_url,omitempty"`
	VoiceUrl    string `dynamo:"voice_url,omitempty"`

	Status           string    `dynamo:"status"`
	Solution         string    `dynamo:"solution,omitempty"`
	Topic            string    `dynamo:"topic,omitempty"`
	Difficulty       string    `dynamo:"difficulty,omitempty"`
	Tags             []string  `dynamo:"tags,set,omitempty"`
	ErrorMessage     string    `dynamo:"error_message,omitempty"`
	CreatedAt        time.Time `dynamo:"created_at"`
	UpdatedAt        time.Time `dynamo:"updated_at"`
	ProcessingMillis int64     `dynamo:"processing_millis"`
	Version          int       `dynamo:"version"` // For optimistic locking
}

// DynamoDbSubmTable persists submissions in a DynamoDB table.
type DynamoDbSubmTable struct {
	ddbClient *dynamodb.Client
	tableName string
	submTable *dynamo.Table
}

func NewDynamoDbSubmTable(ddbClient *dynamodb.Client, tableName string) *DynamoDbSubmTable {
	ddb := &DynamoDbSubmTable{
		ddbClient: ddbClient,
		tableName: tableName,
	}
	db := dynamo.NewFromIface(ddb.ddbClient)
	table := db.Table(ddb.tableName)
	ddb.submTable = &table

	return ddb
}

func (ddb *DynamoDbSubmTable) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	row := new(SubmissionRow)

	err := ddb.submTable.Get("id", id.String()).One(ctx, row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil // Submission not found
		}
		return nil, err
	}

	return rowToSubm(row)
}

func (ddb *DynamoDbSubmTable) List(ctx context.Context, ownerID uuid.UUID) ([]Submission, error) {
	var rows []*SubmissionRow
	err := ddb.submTable.Get("owner_uuid", ownerID.String()).
		Index("owner_uuid-index").
		All(ctx, &rows)
	if err != nil {
		return nil, err
	}

	subms := make([]Submission, 0, len(rows))
	for _, row := range rows {
		subm, err := rowToSubm(row)
		if err != nil {
			return nil, err
		}
		subms = append(subms, *subm)
	}
	return subms, nil
}

const saveAttempts = 5

// Save writes a submission with optimistic locking. A version conflict
// is retried with a random sleep between 10ms and 100ms.
func (ddb *DynamoDbSubmTable) Save(ctx context.Context, subm *Submission) error {
	var err error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(10+rand.Intn(91)) * time.Millisecond)
		}

		var row *SubmissionRow
		var version int
		row, version, err = submToRow(ctx, ddb, subm)
		if err != nil {
			return err
		}

		put := ddb.submTable.Put(row).If("attribute_not_exists(version) OR version = ?", version-1)
		err = put.Run(ctx)
		if err == nil {
			return nil
		}
		if !dynamo.IsCondCheckFailed(err) {
			return err
		}
	}
	return err
}

func submToRow(ctx context.Context, ddb *DynamoDbSubmTable, subm *Submission) (*SubmissionRow, int, error) {
	// the domain type carries no version; read it back to build the
	// conditional write
	version := 1
	existing := new(SubmissionRow)
	err := ddb.submTable.Get("id", subm.ID.String()).One(ctx, existing)
	if err == nil {
		version = existing.Version + 1
	} else if !errors.Is(err, dynamo.ErrNotFound) {
		return nil, 0, err
	}

	return &SubmissionRow{
		Id:               subm.ID.String(),
		OwnerUuid:        subm.OwnerID.String(),
		InputType:        string(subm.InputType),
		Title:            subm.Title,
		Description:      subm.Description,
		TextContent:      subm.TextContent,
		ImageUrl:         subm.ImageUrl,
		VoiceUrl:         subm.VoiceUrl,
		Status:           string(subm.Status),
		Solution:         subm.Solution,
		Topic:            subm.Topic,
		Difficulty:       string(subm.Difficulty),
		Tags:             subm.Tags,
		ErrorMessage:     subm.ErrorMessage,
		CreatedAt:        subm.CreatedAt,
		UpdatedAt:        subm.UpdatedAt,
		ProcessingMillis: subm.ProcessingMillis,
		Version:          version,
	}, version, nil
}

func rowToSubm(row *SubmissionRow) (*Submission, error) {
	id, err := uuid.Parse(row.Id)
	if err != nil {
		return nil, fmt.Errorf("invalid submission id in row: %w", err)
	}
	ownerID, err := uuid.Parse(row.OwnerUuid)
	if err != nil {
		return nil, fmt.Errorf("invalid owner uuid in row: %w", err)
	}

	return &Submission{
		ID:               id,
		OwnerID:          ownerID,
		InputType:        InputType(row.InputType),
		Title:            row.Title,
		Description:      row.Description,
		TextContent:      row.TextContent,
		ImageUrl:         row.ImageUrl,
		VoiceUrl:         row.VoiceUrl,
		Status:           Status(row.Status),
		Solution:         row.Solution,
		Topic:            row.Topic,
		Difficulty:       Difficulty(row.Difficulty),
		Tags:             row.Tags,
		ErrorMessage:     row.ErrorMessage,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
		ProcessingMillis: row.ProcessingMillis,
	}, nil
}
