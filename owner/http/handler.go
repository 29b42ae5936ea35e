package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/luminara-app/backend/owner"
	"github.com/luminara-app/backend/session"
)

// OwnerHttpHandler serves account registration and the login/logout
// pair that binds owners to sessions and JWTs.
type OwnerHttpHandler struct {
	ownerSrvc  *owner.OwnerSrvc
	sessionMgr *session.Manager
	jwtKey     []byte
}

func NewOwnerHttpHandler(ownerSrvc *owner.OwnerSrvc, sessionMgr *session.Manager, jwtKey []byte) *OwnerHttpHandler {
	return &OwnerHttpHandler{
		ownerSrvc:  ownerSrvc,
		sessionMgr: sessionMgr,
		jwtKey:     jwtKey,
	}
}

func (h *OwnerHttpHandler) RegisterRoutes(r *chi.Mux) {
	r.Post("/auth/register", h.AuthRegister)
	r.Post("/auth/login", h.AuthLogin)
	r.Post("/auth/logout", h.AuthLogout)
}
