// Package jobs schedules background maintenance. Drafts and hand-off values
// expire through Redis TTLs on their own; the cron only sweeps abandoned
// wizard session rows out of Postgres.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"fairvio/backend/internal/config"
	"fairvio/backend/internal/storage"
)

// Start registers the cleanup schedule and launches the cron runner.
func Start(cfg config.Config, s storage.Storage, log zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(cfg.CleanupCron, func() {
		cutoff := time.Now().Add(-config.WizardSessionMaxAge)
		n, err := s.DeleteExpiredWizardSessions(cutoff)
		if err != nil {
			log.Error().Err(err).Msg("wizard session cleanup failed")
			return
		}
		if n > 0 {
			log.Info().Int64("purged", n).Msg("expired wizard sessions removed")
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
