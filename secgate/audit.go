package secgate

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEvent is one append-only record of a security relevant action.
// Old and new values carry the state transition for mutations; reads and
// denials leave them nil.
type AuditEvent struct {
	ID           uuid.UUID
	ActorID      *string
	Action       string
	ResourceType string
	ResourceID   *string
	OldValues    map[string]any
	NewValues    map[string]any
	CreatedAt    time.Time
}

// AuditRepo persists audit events. Append must never mutate or remove
// earlier events.
type AuditRepo interface {
	Append(ctx context.Context, event AuditEvent) error
	List(ctx context.Context, limit int) ([]AuditEvent, error)
}

// LogEvent records an audit event for the given action. Persistence
// failures are logged and swallowed: the audit trail must never break the
// operation it describes.
func (g *Gateway) LogEvent(
	ctx context.Context,
	actorID *string,
	action string,
	resourceType string,
	resourceID *string,
	oldValues map[string]any,
	newValues map[string]any,
) {
	if g.audit == nil {
		return
	}
	event := AuditEvent{
		ID:           uuid.New(),
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    oldValues,
		NewValues:    newValues,
		CreatedAt:    time.Now().UTC(),
	}
	if err := g.audit.Append(ctx, event); err != nil {
		g.logger.Warn("failed to append audit event",
			"action", action,
			"resource_type", resourceType,
			"error", err)
	}
}

// ListEvents returns the most recent audit events, newest first.
func (g *Gateway) ListEvents(ctx context.Context, limit int) ([]AuditEvent, error) {
	if g.audit == nil {
		return nil, nil
	}
	return g.audit.List(ctx, limit)
}
