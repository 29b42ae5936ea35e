package solve

import (
	"context"
	"log/slog"

	"github.com/luminara-app/backend/genai"
	"github.com/luminara-app/backend/media"
	"github.com/luminara-app/backend/owner"
	"github.com/luminara-app/backend/secgate"
)

// AiClient is the completion surface of the provider client. Satisfied
// by *genai.Client.
type AiClient interface {
	Complete(ctx context.Context, req genai.CompletionReq) (string, error)
}

// Service owns the submission lifecycle: it validates, persists,
// calls the AI provider and parses the answer. Everything else only
// reads submissions.
type Service struct {
	repo      SubmRepo
	ownerSrvc *owner.OwnerSrvc
	media     *media.Manager
	ai        AiClient
	gateway   *secgate.Gateway
	logger    *slog.Logger
}

func NewService(
	repo SubmRepo,
	ownerSrvc *owner.OwnerSrvc,
	mediaMgr *media.Manager,
	ai AiClient,
	gateway *secgate.Gateway,
) *Service {
	return &Service{
		repo:      repo,
		ownerSrvc: ownerSrvc,
		media:     mediaMgr,
		ai:        ai,
		gateway:   gateway,
		logger:    slog.Default().With("module", "solve"),
	}
}

func (s *Service) auditSubm(ctx context.Context, subm *Submission, action string, oldValues, newValues map[string]any) {
	actor := subm.OwnerID.String()
	resID := subm.ID.String()
	s.gateway.LogEvent(ctx, &actor, action, "submission", &resID, oldValues, newValues)
}
