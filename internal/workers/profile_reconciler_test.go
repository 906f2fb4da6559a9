package workers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pareto_backend/internal/logger"
	"pareto_backend/internal/services"
	"pareto_backend/internal/workers"
)

// fakeAccounts only implements what the reconciler calls
type fakeAccounts struct {
	services.AccountService
	reconciles atomic.Int32
	purges     atomic.Int32
	limit      atomic.Int32
	failFirst  bool
}

func (f *fakeAccounts) ReconcileProfiles(_ context.Context, _ *gorm.DB, limit int) (int, error) {
	f.limit.Store(int32(limit))
	if f.reconciles.Add(1) == 1 && f.failFirst {
		return 0, errors.New("db down")
	}
	return 1, nil
}

func (f *fakeAccounts) PurgeExpiredMagicTokens(context.Context, *gorm.DB) (int64, error) {
	f.purges.Add(1)
	return 0, nil
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init("test")
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	return db
}

func TestRunOnce(t *testing.T) {
	accounts := &fakeAccounts{failFirst: true}
	w := workers.NewProfileReconciler(openDB(t), accounts, time.Minute)

	// a reconcile failure does not stop the purge
	w.RunOnce(context.Background())
	assert.EqualValues(t, 1, accounts.reconciles.Load())
	assert.EqualValues(t, 1, accounts.purges.Load())
	assert.EqualValues(t, 100, accounts.limit.Load())
}

func TestStart_TicksUntilCancelled(t *testing.T) {
	accounts := &fakeAccounts{}
	w := workers.NewProfileReconciler(openDB(t), accounts, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := w.Start(ctx)

	require.Eventually(t, func() bool { return accounts.reconciles.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop")
	}
}

func TestStart_Disabled(t *testing.T) {
	accounts := &fakeAccounts{}
	w := workers.NewProfileReconciler(openDB(t), accounts, 0)

	done := w.Start(context.Background())
	select {
	case <-done:
	default:
		t.Fatal("disabled reconciler should report done immediately")
	}
	assert.Zero(t, accounts.reconciles.Load())
}
