package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/logger"
	"github.com/luminara-app/backend/owner/auth"
)

const auditScanWindow = 500

// AuditEventView is one audit trail entry as served over the wire.
type AuditEventView struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	OldValues    map[string]any `json:"old_values,omitempty"`
	NewValues    map[string]any `json:"new_values,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

// getAuditEvents returns the caller's own audit trail, newest first.
func (httpserver *HttpServer) getAuditEvents(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	claims, _ := r.Context().Value(auth.CtxJwtClaimsKey).(*auth.JwtClaims)
	if claims == nil || claims.UUID == "" {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if parsed > 200 {
			parsed = 200
		}
		limit = parsed
	}

	events, err := httpserver.gateway.ListEvents(r.Context(), auditScanWindow)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	views := make([]AuditEventView, 0, limit)
	for _, event := range events {
		if event.ActorID == nil || *event.ActorID != claims.UUID {
			continue
		}
		view := AuditEventView{
			ID:           event.ID.String(),
			Action:       event.Action,
			ResourceType: event.ResourceType,
			OldValues:    event.OldValues,
			NewValues:    event.NewValues,
			CreatedAt:    event.CreatedAt.Format(time.RFC3339),
		}
		if event.ResourceID != nil {
			view.ResourceID = *event.ResourceID
		}
		views = append(views, view)
		if len(views) >= limit {
			break
		}
	}

	httpjson.WriteSuccessJson(w, views)
}
