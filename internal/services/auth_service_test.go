package services

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/email"
	"pareto_backend/internal/models"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

func tokenFromLink(t *testing.T, sent email.SentEmail) string {
	t.Helper()
	link, ok := sent.Data["Link"].(string)
	require.True(t, ok)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", u.Path)
	return u.Query().Get("token")
}

func TestRequestMagicLink_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.AuthService.RequestMagicLink(ctx, env.db, &dto.MagicLinkRequest{Email: "ghost@x.com"}, "1.1.1.1")
	assert.True(t, apperrors.Is(err, apperrors.ErrUserNotFound))
	assert.Empty(t, env.mail.Sent())
}

func TestMagicLink_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "fellow@x.com", models.RoleFellow)

	err := env.svc.AuthService.RequestMagicLink(ctx, env.db, &dto.MagicLinkRequest{Email: "Fellow@X.com"}, "1.1.1.1")
	require.NoError(t, err)

	sent := env.mail.SentTo("fellow@x.com")
	require.Len(t, sent, 1)
	assert.Equal(t, email.TemplateMagicLink, sent[0].Template)
	token := tokenFromLink(t, sent[0])

	// only the hash is stored
	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, auth.HashToken(token), stored.MagicTokenHash)

	resp, err := env.svc.AuthService.CompleteMagicLink(ctx, env.db, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleFellow, resp.Role)
	// no profile yet
	assert.Equal(t, auth.RedirectOnboarding, resp.Redirect)

	claims, err := env.svc.Tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = env.svc.AuthService.CompleteMagicLink(ctx, env.db, token)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidToken), "a token works once")
}

func TestMagicLink_Expired(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "late@x.com", models.RoleAdmin)
	impl := env.svc.AuthService.(*AuthServiceImpl)
	start := time.Now()
	impl.now = func() time.Time { return start }

	require.NoError(t, env.svc.AuthService.RequestMagicLink(ctx, env.db, &dto.MagicLinkRequest{Email: "late@x.com"}, "ip"))
	token := tokenFromLink(t, env.mail.Sent()[0])

	impl.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err := env.svc.AuthService.CompleteMagicLink(ctx, env.db, token)
	assert.True(t, apperrors.Is(err, apperrors.ErrMagicLinkExpired))
}

func TestRequestMagicLink_RateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "busy@x.com", models.RoleFellow)

	var err error
	for i := 0; i <= env.cfg.Auth.MagicLinkRateLimit; i++ {
		err = env.svc.AuthService.RequestMagicLink(ctx, env.db, &dto.MagicLinkRequest{Email: "busy@x.com"}, "9.9.9.9")
	}
	assert.True(t, apperrors.Is(err, apperrors.ErrTooManyRequests))
	assert.Len(t, env.mail.Sent(), env.cfg.Auth.MagicLinkRateLimit)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.createApplication(t, &models.Application{FirstName: "Ada", LastName: "L", Email: "ada@x.com"})
	created, err := env.svc.AccountService.CreateApprovedUser(ctx, env.db, &dto.CreateApprovedUserRequest{Name: "Ada", Email: "ada@x.com"})
	require.NoError(t, err)

	login, err := env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "ada@x.com", Password: created.TemporaryPassword})
	require.NoError(t, err)
	assert.Equal(t, auth.RedirectChangePassword, login.Redirect)

	_, err = env.svc.AuthService.ChangePassword(ctx, env.db, created.UserID, &dto.ChangePasswordRequest{
		Password: "Abcdefg1!", ConfirmPassword: "Abcdefg2!",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrPasswordMismatch))

	_, err = env.svc.AuthService.ChangePassword(ctx, env.db, created.UserID, &dto.ChangePasswordRequest{
		Password: "abcdefgh", ConfirmPassword: "abcdefgh",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrWeakPassword))

	resp, err := env.svc.AuthService.ChangePassword(ctx, env.db, created.UserID, &dto.ChangePasswordRequest{
		Password: "Abcdefg1", ConfirmPassword: "Abcdefg1",
	})
	require.NoError(t, err)
	assert.False(t, resp.User.MustChangePassword)
	assert.Equal(t, auth.RedirectOnboarding, resp.Redirect)

	_, err = env.svc.AuthService.Login(ctx, env.db, &dto.LoginRequest{Email: "ada@x.com", Password: created.TemporaryPassword})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidCredentials))
}

func TestSession_StaffRedirect(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@x.com", models.RoleAdmin)

	session, err := env.svc.AuthService.Session(env.db, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RedirectAdmin, session.Redirect)
	assert.Equal(t, models.RoleAdmin, session.User.Role)
}

func TestPasswordStrengthReport(t *testing.T) {
	env := newTestEnv(t)
	report := env.svc.AuthService.PasswordStrength("Abcdefg1")
	assert.Equal(t, 4, report.Score)
	assert.True(t, report.Acceptable)
	assert.False(t, env.svc.AuthService.PasswordStrength("abc").Acceptable)
}
