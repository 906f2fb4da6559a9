package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/email"
	"pareto_backend/internal/models"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

func TestCreateApprovedUser_WithoutApplication(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.AccountService.CreateApprovedUser(ctx, env.db, &dto.CreateApprovedUserRequest{
		Name: "Nobody", Email: "nobody@x.com",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNoApplicationForEmail))

	var users int64
	env.db.Model(&models.User{}).Count(&users)
	assert.Zero(t, users)
	assert.Empty(t, env.mail.Sent())
}

func TestCreateApprovedUser_CreatesUserRoleAndProfile(t *testing.T) {
	env := newTestEnv(t)
	env.createApplication(t, &models.Application{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com",
		University: "Other", OtherUniversity: "Analytical College", Major: "Math",
		CompetitiveProfiles: []string{"https://codeforces.com/ada"},
	})

	res, err := env.svc.AccountService.CreateApprovedUser(ctx, env.db, &dto.CreateApprovedUserRequest{
		Name: "Ada Lovelace", Email: "ADA@x.com",
	})
	require.NoError(t, err)
	assert.True(t, res.UserCreated)
	assert.True(t, res.ProfileCreated)
	assert.True(t, res.EmailSent)
	assert.Equal(t, auth.MaxPasswordScore, auth.PasswordStrength(res.TemporaryPassword))

	user, err := env.svc.AccountService.GetUserByEmail(env.db, "ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleFellow, user.Role)
	assert.True(t, user.MustChangePassword)

	profile, err := env.svc.ProfileService.GetOwn(env.db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Analytical College", profile.University)
	assert.Equal(t, []string{"https://codeforces.com/ada"}, []string(profile.CompetitiveProfiles))
	assert.False(t, profile.OnboardingCompleted)

	sent := env.mail.SentTo("ada@x.com")
	require.Len(t, sent, 1)
	assert.Equal(t, email.TemplateAcceptance, sent[0].Template)
	assert.Equal(t, res.TemporaryPassword, sent[0].Data["TemporaryPassword"])
	assert.Contains(t, sent[0].HTMLBody, "Ada Lovelace")
}

func TestCreateApprovedUser_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.createApplication(t, &models.Application{FirstName: "Ada", LastName: "L", Email: "ada@x.com"})
	req := &dto.CreateApprovedUserRequest{Name: "Ada", Email: "ada@x.com"}

	first, err := env.svc.AccountService.CreateApprovedUser(ctx, env.db, req)
	require.NoError(t, err)
	second, err := env.svc.AccountService.CreateApprovedUser(ctx, env.db, req)
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, first.ProfileID, second.ProfileID)
	assert.False(t, second.UserCreated)
	assert.False(t, second.ProfileCreated)
	assert.Empty(t, second.TemporaryPassword)

	var profiles int64
	env.db.Model(&models.Profile{}).Count(&profiles)
	assert.Equal(t, int64(1), profiles)
}

func TestCreateApprovedUser_EmailFailureStillCommits(t *testing.T) {
	env := newTestEnv(t)
	env.createApplication(t, &models.Application{FirstName: "Ada", LastName: "L", Email: "ada@x.com"})
	env.mail.SetFail(assert.AnError)

	res, err := env.svc.AccountService.CreateApprovedUser(ctx, env.db, &dto.CreateApprovedUserRequest{Name: "Ada", Email: "ada@x.com"})
	require.NoError(t, err)
	assert.False(t, res.EmailSent)
	assert.NotEmpty(t, res.ProfileID)
}

func TestCreateApprovedUser_KeepsStaffRole(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "boss@x.com", models.RoleAdmin)
	env.createApplication(t, &models.Application{FirstName: "Boss", LastName: "B", Email: "boss@x.com"})

	_, err := env.svc.AccountService.CreateApprovedUser(ctx, env.db, &dto.CreateApprovedUserRequest{Name: "Boss", Email: "boss@x.com"})
	require.NoError(t, err)

	user, err := env.svc.AccountService.GetUserByEmail(env.db, "boss@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestReconcileProfiles(t *testing.T) {
	env := newTestEnv(t)
	withApp := env.createUser(t, "fellow@x.com", models.RoleFellow)
	env.createUser(t, "orphan@x.com", models.RoleFellow)
	env.createApplication(t, &models.Application{FirstName: "Fe", LastName: "Llow", Email: "fellow@x.com"})

	created, err := env.svc.AccountService.ReconcileProfiles(ctx, env.db, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	profile, err := env.svc.ProfileService.GetOwn(env.db, withApp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fe", profile.FirstName)

	// second pass has nothing left to do
	created, err = env.svc.AccountService.ReconcileProfiles(ctx, env.db, 50)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestAssignRole(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "f@x.com", models.RoleFellow)

	_, err := env.svc.AccountService.AssignRole(env.db, models.RoleAdmin, user.ID, "alumni")
	assert.Error(t, err)

	resp, err := env.svc.AccountService.AssignRole(env.db, models.RoleSuperAdmin, user.ID, "alumni")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAlumni, resp.Role)

	_, err = env.svc.AccountService.AssignRole(env.db, models.RoleSuperAdmin, user.ID, "owner")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidUserRole))
}

func TestSeedSuperAdmin(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.svc.AccountService.SeedSuperAdmin(ctx, env.db, "root@x.com", "Root", "Str0ng!Passw0rd"))
	require.NoError(t, env.svc.AccountService.SeedSuperAdmin(ctx, env.db, "other@x.com", "Other", ""))

	user, err := env.svc.AccountService.GetUserByEmail(env.db, "root@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)

	_, err = env.svc.AccountService.GetUserByEmail(env.db, "other@x.com")
	assert.True(t, apperrors.Is(err, apperrors.ErrUserNotFound))
}
