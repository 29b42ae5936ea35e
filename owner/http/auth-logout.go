package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/logger"
	"github.com/luminara-app/backend/owner/auth"
	"github.com/luminara-app/backend/session"
)

// AuthLogout ends the session named in the caller's token. Tokens stay
// syntactically valid until they expire; ending the session is what
// revokes them, since security validation rejects ended sessions.
func (h *OwnerHttpHandler) AuthLogout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

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

	ended, err := h.sessionMgr.End(r.Context(), sessID, session.EndReasonLogout)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	log.Info("owner logged out", "session_id", ended.ID, "owner_uuid", ended.OwnerID)

	httpjson.WriteSuccessJson(w, map[string]string{"session_id": ended.ID.String()})
}
