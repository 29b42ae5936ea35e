package http

import (
	"encoding/json"
	"net/http"

	"github.com/luminara-app/backend/httpjson"
	"github.com/luminara-app/backend/logger"
	"github.com/luminara-app/backend/owner"
)

func (h *OwnerHttpHandler) AuthRegister(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	type registerRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type registerResponse struct {
		UUID  string `json:"uuid"`
		Email string `json:"email"`
	}

	var request registerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	registered, err := h.ownerSrvc.Register(r.Context(), owner.RegisterParams{
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	log.Info("registered owner", "owner_uuid", registered.UUID)

	httpjson.WriteSuccessJson(w, registerResponse{
		UUID:  registered.UUID.String(),
		Email: registered.Email,
	})
}
