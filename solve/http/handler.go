package http

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/luminara-app/backend/session"
	"github.com/luminara-app/backend/solve"
)

// SolveHttpHandler serves the submission endpoints. Poll reads are
// cached for one second and deduplicated with singleflight so a crowd
// of pollers on the same submission produces one backend read per
// second, not one per client.
type SolveHttpHandler struct {
	srvc       *solve.Service
	sessionMgr *session.Manager

	submCache *cache.Cache
	sfGroup   singleflight.Group
}

func NewSolveHttpHandler(srvc *solve.Service, sessionMgr *session.Manager) *SolveHttpHandler {
	return &SolveHttpHandler{
		srvc:       srvc,
		sessionMgr: sessionMgr,
		submCache:  cache.New(1*time.Second, 1*time.Minute),
	}
}

func (h *SolveHttpHandler) RegisterRoutes(r *chi.Mux) {
	r.Post("/problems", h.PostProblem)
	r.Get("/problems", h.ListProblems)
	r.Get("/problems/{problem-uuid}", h.GetProblem)
}
