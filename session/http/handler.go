package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/logger"
	"github.com/luminara-app/backend/owner/auth"
	"github.com/luminara-app/backend/session"
)

type SessionHttpHandler struct {
	mgr *session.Manager
}

func NewSessionHttpHandler(mgr *session.Manager) *SessionHttpHandler {
	return &SessionHttpHandler{mgr: mgr}
}

func (h *SessionHttpHandler) RegisterRoutes(r *chi.Mux) {
	r.Get("/sessions/current", h.GetCurrent)
	r.Post("/sessions/activity", h.PostActivity)
}

// SessionView is the session shape served over the wire.
type SessionView struct {
	ID            string   `json:"id"`
	OwnerUUID     string   `json:"owner_uuid"`
	StartedAt     string   `json:"started_at"`
	EndedAt       string   `json:"ended_at,omitempty"`
	TotalProblems int      `json:"total_problems"`
	TotalMinutes  int      `json:"total_minutes"`
	Subjects      []string `json:"subjects,omitempty"`
	SecurityLevel string   `json:"security_level,omitempty"`
}

func mapSessionView(sess *session.Session) SessionView {
	view := SessionView{
		ID:            sess.ID.String(),
		OwnerUUID:     sess.OwnerID.String(),
		StartedAt:     sess.StartedAt.Format(time.RFC3339),
		TotalProblems: sess.TotalProblems,
		TotalMinutes:  sess.TotalMinutes,
		Subjects:      sess.Subjects,
		SecurityLevel: sess.Metadata["security_level"],
	}
	if sess.EndedAt != nil {
		view.EndedAt = sess.EndedAt.Format(time.RFC3339)
	}
	return view
}

func (h *SessionHttpHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	claims, _ := r.Context().Value(auth.CtxJwtClaimsKey).(*auth.JwtClaims)
	if claims == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	ownerID, err := uuid.Parse(claims.UUID)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	sess, err := h.mgr.Current(r.Context(), ownerID)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapSessionView(sess))
}

// PostActivity merges a usage delta into the caller's session.
func (h *SessionHttpHandler) PostActivity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	type activityRequest struct {
		Problems int      `json:"problems"`
		Minutes  int      `json:"minutes"`
		Subjects []string `json:"subjects,omitempty"`
	}

	claims, _ := r.Context().Value(auth.CtxJwtClaimsKey).(*auth.JwtClaims)
	if claims == nil || claims.SessionID == "" {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	sessID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var request activityRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	err = h.mgr.RecordActivity(r.Context(), sessID, session.ActivityDelta{
		Problems: request.Problems,
		Minutes:  request.Minutes,
		Subjects: request.Subjects,
	})
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, nil)
}
