package secgate

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/guregu/dynamo/v2"
)

// AuditRow is the DynamoDB shape of an audit event.
type AuditRow struct {
	ID           string         `dynamo:"id,hash"` // Primary key
	ActorID      *string        `dynamo:"actor_id"`
	Action       string         `dynamo:"action"`
	ResourceType string         `dynamo:"resource_type"`
	ResourceID   *string        `dynamo:"resource_id"`
	OldValues    map[string]any `dynamo:"old_values"`
	NewValues    map[string]any `dynamo:"new_values"`
	CreatedAt    time.Time      `dynamo:"created_at"`
}

// DynamoDbAuditTable persists audit events in a DynamoDB table.
type DynamoDbAuditTable struct {
	ddbClient  *dynamodb.Client
	tableName  string
	auditTable *dynamo.Table
}

func NewDynamoDbAuditTable(ddbClient *dynamodb.Client, tableName string) *DynamoDbAuditTable {
	ddb := &DynamoDbAuditTable{
		ddbClient: ddbClient,
		tableName: tableName,
	}
	db := dynamo.NewFromIface(ddb.ddbClient)
	table := db.Table(ddb.tableName)
	ddb.auditTable = &table

	return ddb
}

// Append writes the event as a new row. The condition rejects overwrites
// so the table stays append-only even on id collisions.
func (ddb *DynamoDbAuditTable) Append(ctx context.Context, event AuditEvent) error {
	row := AuditRow{
		ID:           event.ID.String(),
		ActorID:      event.ActorID,
		Action:       event.Action,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		OldValues:    event.OldValues,
		NewValues:    event.NewValues,
		CreatedAt:    event.CreatedAt,
	}
	put := ddb.auditTable.Put(row).If("attribute_not_exists(id)")
	return put.Run(ctx)
}

func (ddb *DynamoDbAuditTable) List(ctx context.Context, limit int) ([]AuditEvent, error) {
	var rows []AuditRow
	err := ddb.auditTable.Scan().All(ctx, &rows)
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	events := make([]AuditEvent, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			continue
		}
		events = append(events, AuditEvent{
			ID:           id,
			ActorID:      row.ActorID,
			Action:       row.Action,
			ResourceType: row.ResourceType,
			ResourceID:   row.ResourceID,
			OldValues:    row.OldValues,
			NewValues:    row.NewValues,
			CreatedAt:    row.CreatedAt,
		})
	}
	return events, nil
}
