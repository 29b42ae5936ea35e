package http

import (
	"encoding/json"
	"net/http"

	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/logger"
	"github.com/luminara-app/backend/owner/auth"
)

// AuthLogin checks the credentials, resumes (or starts) the owner's
// session and issues a JWT carrying owner and session ids.
func (h *OwnerHttpHandler) AuthLogin(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type loginResponse struct {
		Token     string `json:"token"`
		OwnerUUID string `json:"owner_uuid"`
		SessionID string `json:"session_id"`
	}

	var request loginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	log.Info("received login request", "email", request.Email)

	loggedIn, err := h.ownerSrvc.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	sess, err := h.sessionMgr.Resume(r.Context(), loggedIn.UUID)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	token, err := auth.GenerateJWT(loggedIn.Email, loggedIn.UUID, sess.ID.String(), h.jwtKey)
	if err != nil {
		log.Error("failed to generate JWT", "error", err)
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, loginResponse{
		Token:     token,
		OwnerUUID: loggedIn.UUID.String(),
		SessionID: sess.ID.String(),
	})
}
