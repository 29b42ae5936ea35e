package solve

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wailsapp/mimetype"

	"github.com/luminara-app/backend/genai"
	"github.com/luminara-app/backend/ident"
	"github.com/luminara-app/backend/secgate"
	"github.com/luminara-app/backend/srvcerr"
)

// Submit runs a submission through the full pipeline: gateway checks,
// validation, owner resolution, persistence, one provider call, answer
// parsing, terminal persistence.
//
// Failures before the record exists return an error and leave no trace.
// Once the record is persisted every failure marks it terminal and
// comes back as SubmitResult{Success: false} with a nil error, so the
// caller always learns the submission id it can poll.
func (s *Service) Submit(ctx context.Context, p SubmitParams) (*SubmitResult, error) {
	// gateway checks run against the identity the caller presented;
	// absent or malformed ids count against the guest bucket
	actor := ident.GuestOwnerID
	if ident.IsValid(p.OwnerID) {
		actor = p.OwnerID
	}
	if err := s.gateway.CheckPermission(actor, secgate.ActionSubmitProblem); err != nil {
		return nil, err
	}
	if err := s.gateway.CheckRateLimit(ctx, "submit:"+actor); err != nil {
		return nil, err
	}

	p.Title = secgate.Sanitize(p.Title)
	p.Description = secgate.Sanitize(p.Description)
	p.TextContent = secgate.Sanitize(p.TextContent)

	if err := ValidateSubmit(p); err != nil {
		return nil, err
	}
	inputType := InputType(p.InputType)

	ownerID := s.resolveOwner(p.OwnerID)

	// best-effort: a missing profile row must not block the submission
	if err := s.ownerSrvc.EnsureExists(ctx, ownerID); err != nil {
		s.logger.Warn("failed to ensure owner profile exists",
			"owner_uuid", ownerID, "error", err)
	}

	imageB64 := ""
	imageMime := ""
	imageUrl := ""
	if inputType == InputImage {
		imgBytes, err := base64.StdEncoding.DecodeString(p.ImageData)
		if err != nil {
			return nil, newErrInvalidImageData().SetDebug(err)
		}
		uploaded, err := s.media.Upload(ctx, ownerID, imgBytes)
		if err != nil {
			return nil, err
		}
		imageUrl = uploaded.Url
		// the provider gets the original full resolution image, not the
		// recompressed stored copy
		imageB64 = p.ImageData
		if mType := mimetype.Detect(imgBytes); mType != nil {
			imageMime = mType.String()
		}
	}

	now := time.Now().UTC()
	subm := &Submission{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		InputType:   inputType,
		Title:       p.Title,
		Description: p.Description,
		TextContent: p.TextContent,
		ImageUrl:    imageUrl,
		VoiceUrl:    p.VoiceUrl,
		Status:      StatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, subm); err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	s.auditSubm(ctx, subm, "submission_created", nil, map[string]any{
		"status":     string(subm.Status),
		"input_type": string(subm.InputType),
		"title":      subm.Title,
	})

	answer, err := s.ai.Complete(ctx, genai.CompletionReq{
		Prompt:    buildPrompt(p),
		ImageB64:  imageB64,
		ImageMIME: imageMime,
	})
	if err != nil {
		return s.markFailed(ctx, subm, err), nil
	}

	topic, difficulty, tags := parseAnswer(answer)
	subm.Solution = answer
	subm.Topic = topic
	subm.Difficulty = difficulty
	subm.Tags = tags
	if err := s.persistTerminal(ctx, subm, StatusCompleted); err != nil {
		subm.Solution = ""
		subm.Topic = ""
		subm.Difficulty = ""
		subm.Tags = nil
		return s.markFailed(ctx, subm, srvcerr.ErrInternalSE().SetDebug(err)), nil
	}
	s.auditSubm(ctx, subm, "submission_completed",
		map[string]any{"status": string(StatusProcessing)},
		map[string]any{
			"status":     string(StatusCompleted),
			"topic":      subm.Topic,
			"difficulty": string(subm.Difficulty),
		})

	s.logger.Info("submission completed",
		"subm_uuid", subm.ID,
		"owner_uuid", subm.OwnerID,
		"topic", subm.Topic,
		"processing_millis", subm.ProcessingMillis)

	return &SubmitResult{
		Success:    true,
		ProblemID:  subm.ID,
		Status:     subm.Status,
		Solution:   subm.Solution,
		Subject:    subm.Topic,
		Difficulty: subm.Difficulty,
		Tags:       subm.Tags,
	}, nil
}

// resolveOwner maps the caller supplied owner id onto the id the
// submission is persisted under. Absent means guest; a malformed id is
// silently replaced with a fresh one so the submission still goes
// through with a valid owner.
func (s *Service) resolveOwner(provided string) uuid.UUID {
	switch {
	case provided == "":
		return uuid.MustParse(ident.GuestOwnerID)
	case !ident.IsValid(provided):
		assigned := uuid.MustParse(ident.Generate())
		s.logger.Warn("replaced invalid owner id on submission",
			"provided", provided, "assigned", assigned)
		return assigned
	default:
		return uuid.MustParse(provided)
	}
}

// persistTerminal advances the submission to a terminal status and
// saves it. Already-terminal submissions are left untouched. On a
// write failure the in-memory status is rolled back so the caller can
// still route the submission down another terminal path.
func (s *Service) persistTerminal(ctx context.Context, subm *Submission, status Status) error {
	prev := subm.Status
	if !prev.CanAdvanceTo(status) {
		return nil
	}
	subm.Status = status
	subm.UpdatedAt = time.Now().UTC()
	subm.ProcessingMillis = subm.UpdatedAt.Sub(subm.CreatedAt).Milliseconds()
	if err := s.repo.Save(ctx, subm); err != nil {
		subm.Status = prev
		return err
	}
	return nil
}

// markFailed records a terminal error state for an already persisted
// submission and builds the failure result. It never returns a Go
// error: the caller still needs the submission id, and the record is
// terminal so polling resolves.
func (s *Service) markFailed(ctx context.Context, subm *Submission, cause error) *SubmitResult {
	publicMsg := "processing failed, please try again later"
	srvcErr := &srvcerr.Error{}
	if errors.As(cause, &srvcErr) {
		publicMsg = srvcErr.Error()
		if srvcErr.DebugInfo() != nil {
			cause = srvcErr.DebugInfo()
		}
	}
	s.logger.Error("submission processing failed",
		"subm_uuid", subm.ID, "error", cause)

	subm.ErrorMessage = publicMsg
	if err := s.persistTerminal(ctx, subm, StatusError); err != nil {
		s.logger.Error("failed to persist submission error state",
			"subm_uuid", subm.ID, "error", err)
	}
	s.auditSubm(ctx, subm, "submission_failed",
		map[string]any{"status": string(StatusProcessing)},
		map[string]any{
			"status":        string(StatusError),
			"error_message": publicMsg,
		})

	return &SubmitResult{
		Success:      false,
		ProblemID:    subm.ID,
		Status:       subm.Status,
		ErrorMessage: publicMsg,
	}
}
