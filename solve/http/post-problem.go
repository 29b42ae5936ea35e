package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/logger"
	"github.com/luminara-app/backend/owner/auth"
	"github.com/luminara-app/backend/session"
	"github.com/luminara-app/backend/solve"
)

func (h *SolveHttpHandler) PostProblem(w http.ResponseWriter, r *http.Request) {
	var params solve.SubmitParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	// an authenticated caller always submits as itself, whatever owner id
	// the body claims
	claims, _ := r.Context().Value(auth.CtxJwtClaimsKey).(*auth.JwtClaims)
	if claims != nil {
		params.OwnerID = claims.UUID
	}

	ctx := r.Context()
	if params.OwnerID != "" {
		ctx = logger.WithOwner(ctx, params.OwnerID)
	}
	log := logger.FromContext(ctx)

	log.Info("post problem request", "input_type", params.InputType)

	res, err := h.srvc.Submit(ctx, params)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	h.recordSessionActivity(ctx, claims, res)

	httpjson.WriteSuccessJson(w, res)
}

// recordSessionActivity merges a solved problem into the caller's
// session counters. Best-effort: the submission response never depends
// on it.
func (h *SolveHttpHandler) recordSessionActivity(ctx context.Context, claims *auth.JwtClaims, res *solve.SubmitResult) {
	if h.sessionMgr == nil || claims == nil || claims.SessionID == "" || !res.Success {
		return
	}
	sessID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return
	}
	delta := session.ActivityDelta{Problems: 1}
	if res.Subject != "" {
		delta.Subjects = []string{res.Subject}
	}
	if err := h.sessionMgr.RecordActivity(ctx, sessID, delta); err != nil {
		logger.FromContext(ctx).Warn("failed to record session activity",
			"session_id", sessID, "error", err)
	}
}
