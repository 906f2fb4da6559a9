package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/email"
	"pareto_backend/internal/models"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
	"pareto_backend/test/helpers"
)

func TestMagicLink_UnknownEmailIsGeneric(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/magic-link", "", dto.MagicLinkRequest{Email: "ghost@test.com"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var msg dto.MessageResponse
	helpers.DecodeJSON(t, body, &msg)
	assert.Equal(t, "Unable to send login link", msg.Message)
	assert.Empty(t, ts.Mail.Sent())

	// malformed email gets the same answer
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/magic-link", "", dto.MagicLinkRequest{Email: "nope"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	helpers.DecodeJSON(t, body, &msg)
	assert.Equal(t, "Unable to send login link", msg.Message)
}

func TestMagicLink_RoundTrip(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ts.CreateUser(t, "fellow@test.com", "", models.RoleFellow, false)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/magic-link", "", dto.MagicLinkRequest{Email: "fellow@test.com"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	token := ts.MagicToken(t, "fellow@test.com")
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/callback?token="+token, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var session dto.AuthResponse
	helpers.DecodeJSON(t, body, &session)
	assert.Equal(t, models.RoleFellow, session.Role)
	assert.NotEmpty(t, session.Token)

	// single use
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/callback?token="+token, "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestMagicLink_RateLimited(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ts.CreateUser(t, "fellow@test.com", "", models.RoleFellow, false)

	var last int
	for i := 0; i <= ts.Config.Auth.MagicLinkRateLimit; i++ {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/magic-link", "", dto.MagicLinkRequest{Email: "fellow@test.com"})
		last = res.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestPasswordChangeGate(t *testing.T) {
	ts := helpers.NewTestServer(t)
	ts.CreateApplication(t, &models.Application{FirstName: "Ada", LastName: "Lovelace", Email: "ada@test.com"})

	res, body := ts.SendRequest(t, http.MethodPost, "/functions/v1/create-approved-user", "", dto.CreateApprovedUserRequest{
		Name:  "Ada Lovelace",
		Email: "ada@test.com",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	acceptance := ts.LastEmailTo(t, "ada@test.com")
	require.Equal(t, email.TemplateAcceptance, acceptance.Template)
	tempPassword, _ := acceptance.Data["TemporaryPassword"].(string)
	require.NotEmpty(t, tempPassword)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "ada@test.com", Password: tempPassword})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var login dto.AuthResponse
	helpers.DecodeJSON(t, body, &login)
	assert.Equal(t, auth.RedirectChangePassword, login.Redirect)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/portal/fellows", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	var gate errorBody
	helpers.DecodeJSON(t, body, &gate)
	assert.Equal(t, string(apperrors.CodePasswordChangeRequired), gate.Error.Code)

	// session stays reachable so the UI can route
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/auth/session", login.Token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/change-password", login.Token, dto.ChangePasswordRequest{
		Password: "weak", ConfirmPassword: "weak",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	const newPassword = "Tr1cky-Analyt1cal-Engine"
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/change-password", login.Token, dto.ChangePasswordRequest{
		Password: newPassword, ConfirmPassword: newPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	token := ts.Login(t, "ada@test.com", newPassword)
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/portal/fellows", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
}

func TestRoles(t *testing.T) {
	ts := helpers.NewTestServer(t)
	fellowToken, _ := ts.CreateAndLoginUser(t, models.RoleFellow)
	adminToken := ts.CreateAndLoginAdmin(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/admin/applications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/applications", fellowToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/admin/applications", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// staff can browse the portal too
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/portal/events", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/portal/events", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
