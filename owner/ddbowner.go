package owner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// OwnerRow is the DynamoDB shape of an owner record.
type OwnerRow struct {
	Uuid      string    `dynamo:"uuid,hash"` // Primary key
	Email     string    `dynamo:"email"`
	BcryptPwd []byte    `dynamo:"bcrypt_pwd"`
	Guest     bool      `dynamo:"guest"`
	Version   int       `dynamo:"version"` // For optimistic locking
	CreatedAt time.Time `dynamo:"created_at"`
}

// DynamoDbOwnerTable persists owners in a DynamoDB table.
type DynamoDbOwnerTable struct {
	ddbClient   *dynamodb.Client
	tableName   string
	ownersTable *dynamo.Table
}

func NewDynamoDbOwnerTable(ddbClient *dynamodb.Client, tableName string) *DynamoDbOwnerTable {
	ddb := &DynamoDbOwnerTable{
		ddbClient: ddbClient,
		tableName: tableName,
	}
	db := dynamo.NewFromIface(ddb.ddbClient)
	table := db.Table(ddb.tableName)
	ddb.ownersTable = &table

	return ddb
}

// Get retrieves an owner by id. Returns nil without error when absent.
func (ddb *DynamoDbOwnerTable) Get(ctx context.Context, id uuid.UUID) (*OwnerRecord, error) {
	row := new(OwnerRow)

	err := ddb.ownersTable.Get("uuid", id.String()).One(ctx, row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil // Owner not found
		}
		return nil, err
	}

	return rowToRecord(row)
}

func (ddb *DynamoDbOwnerTable) List(ctx context.Context) ([]*OwnerRecord, error) {
	var rows []*OwnerRow
	err := ddb.ownersTable.Scan().All(ctx, &rows)
	if err != nil {
		return nil, err
	}

	records := make([]*OwnerRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// Save writes an owner with optimistic locking.
func (ddb *DynamoDbOwnerTable) Save(ctx context.Context, rec *OwnerRecord) error {
	// Increment the version number for optimistic locking
	rec.Version++

	row := &OwnerRow{
		Uuid:      rec.UUID.String(),
		Email:     rec.Email,
		BcryptPwd: rec.BcryptPwd,
		Guest:     rec.Guest,
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt,
	}

	put := ddb.ownersTable.Put(row).If("attribute_not_exists(version) OR version = ?", rec.Version-1)
	return put.Run(ctx)
}

func rowToRecord(row *OwnerRow) (*OwnerRecord, error) {
	id, err := uuid.Parse(row.Uuid)
	if err != nil {
		return nil, fmt.Errorf("invalid owner uuid in row: %w", err)
	}
	return &OwnerRecord{
		UUID:      id,
		Email:     row.Email,
		BcryptPwd: row.BcryptPwd,
		Guest:     row.Guest,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
	}, nil
}
