package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/logger"
	"github.com/luminara-app/backend/owner/auth"
)

// submGetCacheKey scopes cached reads to the requesting owner so one
// caller's cached view is never served to another.
func submGetCacheKey(id uuid.UUID, owner *uuid.UUID) string {
	if owner == nil {
		return fmt.Sprintf("subm_get:%s:anon", id)
	}
	return fmt.Sprintf("subm_get:%s:%s", id, owner)
}

func (h *SolveHttpHandler) GetProblem(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "problem-uuid")
	id, err := uuid.Parse(idStr)
	if err != nil {
		logger.FromContext(r.Context()).Warn("invalid problem uuid",
			"problem_uuid", idStr, "error", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	ctx := logger.WithSubmission(r.Context(), id.String())
	log := logger.FromContext(ctx)

	owner := claimsOwner(r)
	cacheKey := submGetCacheKey(id, owner)

	if cached, found := h.submCache.Get(cacheKey); found {
		if view, ok := cached.(SubmView); ok {
			httpjson.WriteSuccessJson(w, view)
			return
		}
	}

	// singleflight collapses concurrent pollers of the same submission
	// into one backend read
	result, err, _ := h.sfGroup.Do(cacheKey, func() (interface{}, error) {
		if cached, found := h.submCache.Get(cacheKey); found {
			if view, ok := cached.(SubmView); ok {
				return view, nil
			}
		}

		subm, err := h.srvc.GetSubm(ctx, id, owner)
		if err != nil {
			return nil, err
		}

		view := mapSubmView(subm)
		h.submCache.Set(cacheKey, view, 0)
		return view, nil
	})
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	view, _ := result.(SubmView)
	httpjson.WriteSuccessJson(w, view)
}

// claimsOwner returns the authenticated owner id, or nil for guest
// traffic and tokens without a parseable id.
func claimsOwner(r *http.Request) *uuid.UUID {
	claims, _ := r.Context().Value(auth.CtxJwtClaimsKey).(*auth.JwtClaims)
	if claims == nil {
		return nil
	}
	id, err := uuid.Parse(claims.UUID)
	if err != nil {
		return nil
	}
	return &id
}
