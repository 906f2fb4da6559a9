package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pareto_backend/database"
	"pareto_backend/internal/config"
	"pareto_backend/internal/content"
	"pareto_backend/internal/email"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/models"
	"pareto_backend/internal/ratelimit"
	"pareto_backend/internal/storage"
)

type testEnv struct {
	db    *gorm.DB
	cfg   *config.Config
	mail  *email.RecordingProvider
	store *storage.LocalStorage
	svc   *ServiceContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStorage(t, nil)
}

// newTestEnvWithStorage lets a test put a wrapper in front of the local store
func newTestEnvWithStorage(t *testing.T, wrap func(storage.Storage) storage.Storage) *testEnv {
	t.Helper()
	logger.Init("test")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	cfg := config.Default()
	cfg.JWT.Secret = "test-secret"
	cfg.App.SiteURL = "https://pareto.test"
	cfg.App.AdminEmail = "team@pareto.test"

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/files", SigningKey: "k"})
	require.NoError(t, err)

	templates, err := email.NewDefaultTemplateManager("")
	require.NoError(t, err)
	mail := email.NewRecordingProvider(templates)

	catalogue, err := content.Load("")
	require.NoError(t, err)

	var backend storage.Storage = store
	if wrap != nil {
		backend = wrap(store)
	}

	svc := NewServiceContainer(cfg, Infrastructure{
		Storage:       backend,
		EmailProvider: mail,
		Limiter:       ratelimit.NewMemoryLimiter(cfg.Auth.MagicLinkRateLimit, time.Minute),
		Content:       catalogue,
	})

	return &testEnv{db: db, cfg: cfg, mail: mail, store: store, svc: svc}
}

func (e *testEnv) createApplication(t *testing.T, app *models.Application) *models.Application {
	t.Helper()
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	require.NoError(t, e.db.Create(app).Error)
	return app
}

func (e *testEnv) createUser(t *testing.T, emailAddr string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Email: emailAddr, Name: "Test User"}
	require.NoError(t, e.db.Create(user).Error)
	require.NoError(t, e.db.Create(&models.UserRole{UserID: user.ID, Role: role}).Error)
	return user
}

var ctx = context.Background()
