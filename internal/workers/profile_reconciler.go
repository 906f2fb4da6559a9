package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pareto_backend/internal/logger"
	"pareto_backend/internal/services"
)

const reconcileBatch = 100

// ProfileReconciler periodically repairs approval hand-offs that left a fellow
// without a profile, and clears expired sign-in tokens.
type ProfileReconciler struct {
	db       *gorm.DB
	accounts services.AccountService
	interval time.Duration
}

func NewProfileReconciler(db *gorm.DB, accounts services.AccountService, interval time.Duration) *ProfileReconciler {
	return &ProfileReconciler{db: db, accounts: accounts, interval: interval}
}

// Start runs the loop in a goroutine until ctx is cancelled. The returned
// channel is closed once the loop has exited.
func (w *ProfileReconciler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if w.interval <= 0 {
		logger.Info("Profile reconciler disabled")
		close(done)
		return done
	}

	go func() {
		defer close(done)
		w.loop(ctx)
	}()
	return done
}

func (w *ProfileReconciler) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Profile reconciler started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("Profile reconciler stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce does a single pass
func (w *ProfileReconciler) RunOnce(ctx context.Context) {
	db := w.db.WithContext(ctx)

	created, err := w.accounts.ReconcileProfiles(ctx, db, reconcileBatch)
	if err != nil {
		logger.WorkerLog("profile_reconciler", "reconcile_profiles", err)
	} else if created > 0 {
		logger.Info("Reconciled missing profiles", "created", created)
	}

	purged, err := w.accounts.PurgeExpiredMagicTokens(ctx, db)
	if err != nil {
		logger.WorkerLog("profile_reconciler", "purge_magic_tokens", err)
	} else if purged > 0 {
		logger.Debug("Cleared expired magic tokens", "count", purged)
	}
}
