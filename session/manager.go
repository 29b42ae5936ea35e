package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/luminara-app/backend/secgate"
	"github.com/luminara-app/backend/srvcerr"
)

// Manager owns the session lifecycle. The repo is the source of truth;
// the current-session cache only short-circuits lookups and every hit is
// re-verified against the repo before use.
type Manager struct {
	repo    SessionRepo
	gateway *secgate.Gateway

	curCache      *cache.Cache // owner uuid string -> session uuid
	watchInterval time.Duration

	logger *slog.Logger
}

func NewManager(repo SessionRepo, gateway *secgate.Gateway) *Manager {
	return &Manager{
		repo:          repo,
		gateway:       gateway,
		curCache:      cache.New(5*time.Minute, 10*time.Minute),
		watchInterval: 5 * time.Minute,
		logger:        slog.Default().With("module", "session"),
	}
}

// WithWatchInterval overrides how often the expiry watcher wakes up.
func (m *Manager) WithWatchInterval(d time.Duration) *Manager {
	m.watchInterval = d
	return m
}

// Create starts a new session for ownerID at the standard security level.
func (m *Manager) Create(ctx context.Context, ownerID uuid.UUID) (*Session, error) {
	sess := &Session{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		StartedAt: time.Now().UTC(),
		Metadata:  map[string]string{"security_level": SecurityLevelStandard},
	}

	if err := m.repo.Save(ctx, sess); err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	m.curCache.Set(ownerID.String(), sess.ID, cache.DefaultExpiration)

	m.audit(ctx, ownerID, "session_created", sess.ID, nil, map[string]any{
		"security_level": SecurityLevelStandard,
	})

	m.logger.Info("session created", "session_id", sess.ID, "owner_uuid", ownerID)
	return sess, nil
}

// Current returns the owner's most recent open session.
func (m *Manager) Current(ctx context.Context, ownerID uuid.UUID) (*Session, error) {
	if cached, found := m.curCache.Get(ownerID.String()); found {
		if sessID, ok := cached.(uuid.UUID); ok {
			sess, err := m.repo.Get(ctx, sessID)
			if err == nil && sess != nil && sess.Active() {
				return sess, nil
			}
		}
		m.curCache.Delete(ownerID.String())
	}

	all, err := m.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	var newest *Session
	for _, sess := range all {
		if !sess.Active() {
			continue
		}
		if newest == nil || sess.StartedAt.After(newest.StartedAt) {
			newest = sess
		}
	}
	if newest == nil {
		return nil, newErrNoActiveSession()
	}

	m.curCache.Set(ownerID.String(), newest.ID, cache.DefaultExpiration)
	return newest, nil
}

// Resume returns the owner's open session, creating one when none exists.
// This is the login path.
func (m *Manager) Resume(ctx context.Context, ownerID uuid.UUID) (*Session, error) {
	sess, err := m.Current(ctx, ownerID)
	if err == nil {
		return sess, nil
	}
	srvcErr := &srvcerr.Error{}
	if errors.As(err, &srvcErr) && srvcErr.ErrorCode() == ErrCodeNoActiveSession {
		return m.Create(ctx, ownerID)
	}
	return nil, err
}

// End closes the session. Ending an already ended session is a no-op so
// logout and the expiry watcher cannot race each other into errors.
func (m *Manager) End(ctx context.Context, id uuid.UUID, reason string) (*Session, error) {
	sess, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	if sess == nil {
		return nil, newErrSessionNotFound()
	}
	if !sess.Active() {
		return sess, nil
	}

	endedAt := time.Now().UTC()
	sess.EndedAt = &endedAt
	endedBy := "owner"
	if reason == EndReasonSecurityTimeout {
		endedBy = "system"
	}
	sess.Metadata["end_reason"] = reason
	sess.Metadata["ended_by"] = endedBy

	if err := m.repo.Save(ctx, sess); err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}
	m.curCache.Delete(sess.OwnerID.String())

	m.audit(ctx, sess.OwnerID, "session_ended", sess.ID,
		map[string]any{"status": "active"},
		map[string]any{"status": "ended", "end_reason": reason, "ended_by": endedBy})

	m.logger.Info("session ended",
		"session_id", sess.ID, "owner_uuid", sess.OwnerID, "reason", reason)
	return sess, nil
}

// RecordActivity merges a usage delta into the session. Callers treat this
// as best-effort and may ignore the error.
func (m *Manager) RecordActivity(ctx context.Context, id uuid.UUID, delta ActivityDelta) error {
	sess, err := m.repo.Get(ctx, id)
	if err != nil {
		return srvcerr.ErrInternalSE().SetDebug(err)
	}
	if sess == nil {
		return newErrSessionNotFound()
	}
	if !sess.Active() {
		return newErrSessionEnded()
	}

	sess.TotalProblems += delta.Problems
	sess.TotalMinutes += delta.Minutes
	for _, subject := range delta.Subjects {
		if !slices.Contains(sess.Subjects, subject) {
			sess.Subjects = append(sess.Subjects, subject)
		}
	}
	sess.Metadata["last_activity"] = time.Now().UTC().Format(time.RFC3339)

	if err := m.repo.Save(ctx, sess); err != nil {
		return srvcerr.ErrInternalSE().SetDebug(err)
	}
	return nil
}

// ValidateSecurity checks that the session is a usable security context:
// it must exist, be active, and be younger than MaxSessionAge. Sessions
// past the age limit are ended with the security_timeout reason.
func (m *Manager) ValidateSecurity(ctx context.Context, id uuid.UUID) error {
	sess, err := m.repo.Get(ctx, id)
	if err != nil {
		return srvcerr.ErrInternalSE().SetDebug(err)
	}
	if sess == nil {
		m.dropCachedSession(id)
		return newErrSessionNotFound()
	}
	if !sess.Active() {
		return newErrSessionEnded()
	}
	if time.Since(sess.StartedAt) > MaxSessionAge {
		if _, err := m.End(ctx, id, EndReasonSecurityTimeout); err != nil {
			m.logger.Warn("failed to end expired session",
				"session_id", id, "error", err)
		}
		return newErrSessionExpired()
	}
	return nil
}

func (m *Manager) audit(ctx context.Context, ownerID uuid.UUID, action string, sessionID uuid.UUID, oldValues, newValues map[string]any) {
	if m.gateway == nil {
		return
	}
	actor := ownerID.String()
	resource := sessionID.String()
	m.gateway.LogEvent(ctx, &actor, action, "session", &resource, oldValues, newValues)
}

// dropCachedSession removes cache entries pointing at a session that no
// longer exists.
func (m *Manager) dropCachedSession(id uuid.UUID) {
	for key, item := range m.curCache.Items() {
		if sessID, ok := item.Object.(uuid.UUID); ok && sessID == id {
			m.curCache.Delete(key)
		}
	}
}
