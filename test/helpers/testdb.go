package helpers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/email"
	"pareto_backend/internal/models"
	"pareto_backend/internal/services/dto"
)

// CreateUser inserts a user with a role. An empty password leaves the
// account magic-link only.
func (ts *TestServer) CreateUser(t *testing.T, emailAddr, password string, role models.Role, mustChange bool) *models.User {
	t.Helper()

	user := &models.User{Email: emailAddr, Name: "Test User", MustChangePassword: mustChange}
	if password != "" {
		hash, err := auth.HashPassword(password)
		require.NoError(t, err)
		user.PasswordHash = hash
	}
	require.NoError(t, ts.DB.Create(user).Error, "create user %s", emailAddr)
	require.NoError(t, ts.DB.Create(&models.UserRole{UserID: user.ID, Role: role}).Error)
	return user
}

// Login signs in over the API and returns the token
func (ts *TestServer) Login(t *testing.T, emailAddr, password string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email:    emailAddr,
		Password: password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed: "+body)

	var resp dto.AuthResponse
	DecodeJSON(t, body, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// CreateAndLoginUser creates a user with a unique email and signs them in
func (ts *TestServer) CreateAndLoginUser(t *testing.T, role models.Role) (string, *models.User) {
	t.Helper()
	const password = "Str0ng!Passw0rd"
	emailAddr := fmt.Sprintf("%s_%d@test.com", role, time.Now().UnixNano())
	user := ts.CreateUser(t, emailAddr, password, role, false)
	return ts.Login(t, emailAddr, password), user
}

func (ts *TestServer) CreateAndLoginAdmin(t *testing.T) string {
	t.Helper()
	token, _ := ts.CreateAndLoginUser(t, models.RoleAdmin)
	return token
}

// CreateApplication inserts an application directly, pending unless set
func (ts *TestServer) CreateApplication(t *testing.T, app *models.Application) *models.Application {
	t.Helper()
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	require.NoError(t, ts.DB.Create(app).Error)
	return app
}

// LastEmailTo returns the most recent email sent to address
func (ts *TestServer) LastEmailTo(t *testing.T, address string) email.SentEmail {
	t.Helper()
	sent := ts.Mail.SentTo(address)
	require.NotEmpty(t, sent, "no email sent to %s", address)
	return sent[len(sent)-1]
}

// MagicToken pulls the token out of the last magic link sent to address
func (ts *TestServer) MagicToken(t *testing.T, address string) string {
	t.Helper()
	msg := ts.LastEmailTo(t, address)
	require.Equal(t, email.TemplateMagicLink, msg.Template)

	link, ok := msg.Data["Link"].(string)
	require.True(t, ok, "magic link email without a link")
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}
