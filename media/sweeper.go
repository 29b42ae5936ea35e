package media

import (
	"context"
	"time"
)

// DefaultSweepInterval is how often the sweeper looks for expired media.
const DefaultSweepInterval = 1 * time.Hour

// DefaultRetention is how long a soft-deleted blob survives before the
// sweeper collects it.
const DefaultRetention = 24 * time.Hour

// StartSweeper permanently removes media soft-deleted more than
// retention ago, on a fixed interval. The returned stop function must be
// called on teardown; cancelling ctx stops the sweeper too.
func (m *Manager) StartSweeper(ctx context.Context, interval, retention time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := m.SweepExpired(ctx, retention)
				if err != nil {
					m.logger.Warn("media sweep failed", "error", err)
					continue
				}
				if removed > 0 {
					m.logger.Info("expired media swept", "removed", removed)
				}
			}
		}
	}()
	return cancel
}
