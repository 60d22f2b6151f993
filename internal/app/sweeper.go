package app

import (
	"context"
	"time"
)

// runSweeper periodically reclaims expired seat holds and expires overdue
// pending bookings. It runs until ctx is cancelled and performs one final
// sweep on the way out so a clean shutdown leaves no stale rows behind.
func (app *Application) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.config.sweepInterval)
	defer ticker.Stop()

	app.logger.Info("sweeper started", "interval", app.config.sweepInterval)

	for {
		select {
		case <-ctx.Done():
			app.sweep(context.WithoutCancel(ctx))
			app.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			app.sweep(ctx)
		}
	}
}

func (app *Application) sweep(ctx context.Context) {
	reclaimed, err := app.manager.SweepExpired(ctx)
	if err != nil {
		app.logger.Error("sweep failed", "error", err, "reclaimed", reclaimed)
		return
	}
	if reclaimed > 0 {
		app.logger.Info("sweep reclaimed expired records", "count", reclaimed)
	}
}
