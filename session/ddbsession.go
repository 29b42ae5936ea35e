package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// SessionRow is the DynamoDB shape of a session. ListByOwner relies on a
// global secondary index named owner_uuid-index with owner_uuid as its
// hash key.
type SessionRow struct {
	Id            string            `dynamo:"id,hash"` // Primary key
	OwnerUuid     string            `dynamo:"owner_uuid" index:"owner_uuid-index,hash"`
	StartedAt     time.Time         `dynamo:"started_at"`
	EndedAt       *time.Time        `dynamo:"ended_at"`
	Metadata      map[string]string `dynamo:"metadata"`
	TotalProblems int               `dynamo:"total_problems"`
	TotalMinutes  int               `dynamo:"total_minutes"`
	Subjects      []string          `dynamo:"subjects,set,omitempty"`
	Version       int               `dynamo:"version"` // For optimistic locking
}

// DynamoDbSessionTable persists sessions in a DynamoDB table.
type DynamoDbSessionTable struct {
	ddbClient     *dynamodb.Client
	tableName     string
	sessionsTable *dynamo.Table
}

func NewDynamoDbSessionTable(ddbClient *dynamodb.Client, tableName string) *DynamoDbSessionTable {
	ddb := &DynamoDbSessionTable{
		ddbClient: ddbClient,
		tableName: tableName,
	}
	db := dynamo.NewFromIface(ddb.ddbClient)
	table := db.Table(ddb.tableName)
	ddb.sessionsTable = &table

	return ddb
}

func (ddb *DynamoDbSessionTable) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	row := new(SessionRow)

	err := ddb.sessionsTable.Get("id", id.String()).One(ctx, row)
	if err != nil {
		if errors.Is(err, dynamo.ErrNotFound) {
			return nil, nil // Session not found
		}
		return nil, err
	}

	return rowToSession(row)
}

func (ddb *DynamoDbSessionTable) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Session, error) {
	var rows []*SessionRow
	err := ddb.sessionsTable.Get("owner_uuid", ownerID.String()).
		Index("owner_uuid-index").
		All(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rowsToSessions(rows)
}

func (ddb *DynamoDbSessionTable) ListOpen(ctx context.Context) ([]*Session, error) {
	var rows []*SessionRow
	err := ddb.sessionsTable.Scan().
		Filter("attribute_not_exists($)", "ended_at").
		All(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rowsToSessions(rows)
}

// Save writes a session with optimistic locking.
func (ddb *DynamoDbSessionTable) Save(ctx context.Context, sess *Session) error {
	row, version, err := sessionToRow(ctx, ddb, sess)
	if err != nil {
		return err
	}

	put := ddb.sessionsTable.Put(row).If("attribute_not_exists(version) OR version = ?", version-1)
	return put.Run(ctx)
}

func sessionToRow(ctx context.Context, ddb *DynamoDbSessionTable, sess *Session) (*SessionRow, int, error) {
	// the domain type carries no version; read it back to build the
	// conditional write
	version := 1
	existing := new(SessionRow)
	err := ddb.sessionsTable.Get("id", sess.ID.String()).One(ctx, existing)
	if err == nil {
		version = existing.Version + 1
	} else if !errors.Is(err, dynamo.ErrNotFound) {
		return nil, 0, err
	}

	return &SessionRow{
		Id:            sess.ID.String(),
		OwnerUuid:     sess.OwnerID.String(),
		StartedAt:     sess.StartedAt,
		EndedAt:       sess.EndedAt,
		Metadata:      sess.Metadata,
		TotalProblems: sess.TotalProblems,
		TotalMinutes:  sess.TotalMinutes,
		Subjects:      sess.Subjects,
		Version:       version,
	}, version, nil
}

func rowToSession(row *SessionRow) (*Session, error) {
	id, err := uuid.Parse(row.Id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id in row: %w", err)
	}
	ownerID, err := uuid.Parse(row.OwnerUuid)
	if err != nil {
		return nil, fmt.Errorf("invalid owner uuid in row: %w", err)
	}

	metadata := row.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	return &Session{
		ID:            id,
		OwnerID:       ownerID,
		StartedAt:     row.StartedAt,
		EndedAt:       row.EndedAt,
		Metadata:      metadata,
		TotalProblems: row.TotalProblems,
		TotalMinutes:  row.TotalMinutes,
		Subjects:      row.Subjects,
	}, nil
}

func rowsToSessions(rows []*SessionRow) ([]*Session, error) {
	sessions := make([]*Session, 0, len(rows))
	for _, row := range rows {
		sess, err := rowToSession(row)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}
