package session

import (
	"context"
	"time"
)

// StartExpiryWatcher runs ValidateSecurity over all open sessions on a
// fixed interval so stale sessions get ended even when their owner never
// comes back. The returned stop function must be called on teardown;
// cancelling ctx stops the watcher too.
func (m *Manager) StartExpiryWatcher(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(m.watchInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweepExpired(ctx)
			}
		}
	}()
	return cancel
}

func (m *Manager) sweepExpired(ctx context.Context) {
	open, err := m.repo.ListOpen(ctx)
	if err != nil {
		m.logger.Warn("expiry watcher failed to list open sessions", "error", err)
		return
	}
	for _, sess := range open {
		if time.Since(sess.StartedAt) <= MaxSessionAge {
			continue
		}
		if err := m.ValidateSecurity(ctx, sess.ID); err != nil {
			m.logger.Info("expired session swept",
				"session_id", sess.ID, "owner_uuid", sess.OwnerID)
		}
	}
}
