package crontab

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"

	"cg-server/internal/config"
	"cg-server/internal/domain/generation"
	"cg-server/internal/infrastructure/logger"
	"cg-server/internal/utils/platformerrors"
)

const DefaultSweepIntervalMinutes = 60

// Crontab schedules background maintenance jobs. The only recurring job today
// evicts stale tenant credentials from the in-memory store.
type Crontab struct {
	ctab    *crontab.Crontab
	tenants *generation.TenantKeys
}

func NewCrontab(genService *generation.Service) *Crontab {
	return &Crontab{
		ctab:    crontab.New(),
		tenants: genService.Tenants(),
	}
}

func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	interval := DefaultSweepIntervalMinutes
	if cfg := config.GetGlobal(); cfg != nil && cfg.TenantKeySweepInterval > 0 {
		interval = cfg.TenantKeySweepInterval
	}

	cronExpr := fmt.Sprintf("*/%d * * * *", interval)
	if interval >= 60 {
		cronExpr = "0 * * * *"
	}
	if err := c.ctab.AddJob(cronExpr, func() {
		evicted := c.tenants.Sweep(time.Now())
		if evicted > 0 {
			log.Info().Int("evicted", evicted).Msg("swept stale tenant credentials")
		}
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add tenant key sweep job")
	}
	log.Info().Msgf("Tenant key sweep scheduled: every %d minute(s)", interval)

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}
