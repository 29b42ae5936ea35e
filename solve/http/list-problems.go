package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/ident"
	"github.com/luminara-app/backend/logger"
	"github.com/luminara-app/backend/solve"
)

// ListProblems returns the caller's submission history, newest first.
// Unauthenticated callers browse the shared guest pool. Filters come in
// as query parameters: topic, difficulty, status.
func (h *SolveHttpHandler) ListProblems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	ownerID := uuid.MustParse(ident.GuestOwnerID)
	if owner := claimsOwner(r); owner != nil {
		ownerID = *owner
	}

	filter := solve.ListFilter{
		Topic:      r.URL.Query().Get("topic"),
		Difficulty: solve.Difficulty(r.URL.Query().Get("difficulty")),
		Status:     solve.Status(r.URL.Query().Get("status")),
	}

	subms, err := h.srvc.ListSubms(r.Context(), ownerID, filter)
	if err != nil {
		log.Error("failed to list submissions", "owner_uuid", ownerID, "error", err)
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapSubmListView(subms))
}
