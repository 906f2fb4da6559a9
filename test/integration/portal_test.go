package integration_test

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/models"
	"pareto_backend/internal/services/dto"
	"pareto_backend/test/helpers"
)

// approvedFellow provisions a fellow from an application and signs them in
// with a password that no longer needs changing.
func approvedFellow(t *testing.T, ts *helpers.TestServer, first, last, emailAddr, university string) string {
	t.Helper()
	ts.CreateApplication(t, &models.Application{
		FirstName: first, LastName: last, Email: emailAddr, University: university, Major: "Computer Science",
	})
	res, body := ts.SendRequest(t, http.MethodPost, "/functions/v1/create-approved-user", "", dto.CreateApprovedUserRequest{
		Name: first + " " + last, Email: emailAddr,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	hash, err := auth.HashPassword("Str0ng!Passw0rd")
	require.NoError(t, err)
	require.NoError(t, ts.DB.Model(&models.User{}).Where("email = ?", emailAddr).
		Updates(map[string]interface{}{"password_hash": hash, "must_change_password": false}).Error)
	return ts.Login(t, emailAddr, "Str0ng!Passw0rd")
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))))
	return buf.Bytes()
}

func TestOnboarding_StepOneGuard(t *testing.T) {
	ts := helpers.NewTestServer(t)
	token := approvedFellow(t, ts, "Ada", "Lovelace", "ada@test.com", "Stanford")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/portal/onboarding/steps/1/validate", token, map[string]string{
		"first_name": "Ada",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var step dto.StepValidationResponse
	helpers.DecodeJSON(t, body, &step)
	assert.False(t, step.Valid)
	assert.Equal(t, 1, step.NextStep)
	assert.Equal(t, 1, step.PrevStep)
	assert.Contains(t, step.Errors, "last_name")

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/portal/onboarding/steps/9/validate", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestOnboarding_CompleteAndSearch(t *testing.T) {
	ts := helpers.NewTestServer(t)
	token := approvedFellow(t, ts, "Ada", "Lovelace", "ada@test.com", "Stanford")
	approvedFellow(t, ts, "Grace", "Hopper", "grace@test.com", "Yale")

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/auth/session", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var session dto.SessionResponse
	helpers.DecodeJSON(t, body, &session)
	assert.Equal(t, auth.RedirectOnboarding, session.Redirect)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/portal/onboarding", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var form map[string]interface{}
	helpers.DecodeJSON(t, body, &form)
	assert.Equal(t, "Stanford", form["university"])
	form["about"] = "Analytical engines"

	res, body = ts.SendMultipart(t, http.MethodPost, "/api/v1/portal/onboarding", token, form,
		helpers.File{Field: "picture", Name: "me.png", Content: pngBytes(t), MimeType: "image/png"},
	)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var result dto.ProfileUpdateResult
	helpers.DecodeJSON(t, body, &result)
	assert.Equal(t, auth.RedirectPortal, result.Redirect)
	assert.Empty(t, result.PictureError)
	assert.True(t, strings.HasPrefix(result.Profile.ProfilePictureURL, "/files/profiles/"))

	// profile pictures live in a public bucket
	pic, err := ts.Server.Client().Get(ts.Server.URL + result.Profile.ProfilePictureURL)
	require.NoError(t, err)
	pic.Body.Close()
	assert.Equal(t, http.StatusOK, pic.StatusCode)
	assert.Equal(t, "image/jpeg", pic.Header.Get("Content-Type"))

	// only onboarded fellows are listed
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/portal/fellows?search=stanford", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var dir dto.DirectoryResponse
	helpers.DecodeJSON(t, body, &dir)
	require.Equal(t, 1, dir.Total)
	assert.Equal(t, "Lovelace", dir.Fellows[0].LastName)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/portal/fellows?search=yale", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	helpers.DecodeJSON(t, body, &dir)
	assert.Zero(t, dir.Total)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/portal/fellows?search=analytical", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	helpers.DecodeJSON(t, body, &dir)
	assert.Zero(t, dir.Total)
}

func TestEventsAndOpportunities(t *testing.T) {
	ts := helpers.NewTestServer(t)
	adminToken := ts.CreateAndLoginAdmin(t)
	fellowToken := approvedFellow(t, ts, "Ada", "Lovelace", "ada@test.com", "Stanford")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/admin/events", adminToken, dto.EventRequest{
		Topic:    "Founders fireside",
		StartsAt: time.Now().Add(48 * time.Hour),
		ZoomLink: "https://zoom.us/j/123",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/admin/events", fellowToken, dto.EventRequest{
		Topic: "Not allowed", StartsAt: time.Now(),
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/portal/events", fellowToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var events []models.Event
	helpers.DecodeJSON(t, body, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "Founders fireside", events[0].Topic)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/admin/opportunities", adminToken, dto.OpportunityRequest{
		Position:     "Founding Engineer",
		Company:      "Acme",
		Tags:         []string{"go", "infra"},
		ContactEmail: "jobs@acme.test",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var opp models.Opportunity
	helpers.DecodeJSON(t, body, &opp)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/portal/opportunities/"+opp.ID+"/apply", fellowToken, dto.ApplyRequest{
		Message: "Keen to help",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	interest := ts.LastEmailTo(t, "jobs@acme.test")
	assert.Equal(t, "ada@test.com", interest.Data["FellowEmail"])
	assert.Equal(t, "Keen to help", interest.Data["Message"])
}

func TestPublicEndpoints(t *testing.T) {
	ts := helpers.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/intake/form?university=Polytechnique", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var form dto.IntakeFormResponse
	helpers.DecodeJSON(t, body, &form)
	assert.True(t, form.Visibility.PreparatoryClasses)

	_, body = ts.SendRequest(t, http.MethodGet, "/api/v1/intake/form?university=MIT", "", nil)
	helpers.DecodeJSON(t, body, &form)
	assert.False(t, form.Visibility.PreparatoryClasses)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/public/mentors", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
