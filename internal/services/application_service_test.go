package services

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pareto_backend/internal/models"
	"pareto_backend/internal/review"
	"pareto_backend/pkg/apperrors"
)

func seedApplications(t *testing.T, env *testEnv) []*models.Application {
	t.Helper()
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	apps := []*models.Application{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", University: "Stanford", Major: "Math"},
		{FirstName: "Alan", LastName: "Turing", Email: "alan@x.com", University: "Cambridge", Major: "CS", Status: models.ApplicationStatusApproved},
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@x.com", University: "Yale", Major: "Math", Flagged: true},
	}
	for i, a := range apps {
		a.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		env.createApplication(t, a)
	}
	return apps
}

func TestApplicationService_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	seedApplications(t, env)

	apps, err := env.svc.ApplicationService.List(env.db, review.Filter{})
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "Grace", apps[0].FirstName)
	assert.Equal(t, "Ada", apps[2].FirstName)

	stanford, err := env.svc.ApplicationService.List(env.db, review.Filter{Search: "stanford"})
	require.NoError(t, err)
	require.Len(t, stanford, 1)
	assert.Equal(t, "Stanford", stanford[0].University)
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	apps := seedApplications(t, env)
	id := apps[0].ID

	for _, status := range []string{"approved", "rejected", "pending", "approved"} {
		app, err := env.svc.ApplicationService.UpdateStatus(env.db, id, status)
		require.NoError(t, err)
		assert.Equal(t, models.ApplicationStatus(status), app.Status)
	}

	_, err := env.svc.ApplicationService.UpdateStatus(env.db, id, "archived")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)

	// invalid status left the row untouched
	stored, err := env.svc.ApplicationService.Get(env.db, id)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, stored.Status)

	_, err = env.svc.ApplicationService.UpdateStatus(env.db, "missing", "approved")
	assert.True(t, apperrors.Is(err, apperrors.ErrApplicationNotFound))
}

func TestApplicationService_ToggleFlagRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	apps := seedApplications(t, env)

	first, err := env.svc.ApplicationService.ToggleFlag(env.db, apps[0].ID)
	require.NoError(t, err)
	assert.True(t, first.Flagged)
	assert.Equal(t, models.ApplicationStatusPending, first.Status)

	second, err := env.svc.ApplicationService.ToggleFlag(env.db, apps[0].ID)
	require.NoError(t, err)
	assert.False(t, second.Flagged)
}

func TestApplicationService_NeighborsWithinFilter(t *testing.T) {
	env := newTestEnv(t)
	apps := seedApplications(t, env)
	math := review.Filter{Search: "math"}

	// filtered list is [Grace, Ada]
	n, err := env.svc.ApplicationService.Neighbors(env.db, apps[0].ID, math)
	require.NoError(t, err)
	assert.Equal(t, 2, n.Total)
	assert.Equal(t, 1, n.Position)
	assert.Equal(t, apps[2].ID, n.NextID)
	assert.Equal(t, apps[2].ID, n.PrevID)

	// Alan is outside the filter
	n, err = env.svc.ApplicationService.Neighbors(env.db, apps[1].ID, math)
	require.NoError(t, err)
	assert.Equal(t, -1, n.Position)
	assert.Equal(t, apps[2].ID, n.NextID)
	assert.Equal(t, apps[0].ID, n.PrevID)
}

func TestApplicationService_Shortcuts(t *testing.T) {
	env := newTestEnv(t)
	apps := seedApplications(t, env)
	id := apps[0].ID

	resp, err := env.svc.ApplicationService.ExecuteShortcut(env.db, id, "A", review.Filter{})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, resp.Application.Status)

	resp, err = env.svc.ApplicationService.ExecuteShortcut(env.db, id, "f", review.Filter{})
	require.NoError(t, err)
	assert.True(t, resp.Application.Flagged)

	resp, err = env.svc.ApplicationService.ExecuteShortcut(env.db, id, "ArrowRight", review.Filter{})
	require.NoError(t, err)
	assert.Equal(t, apps[2].ID, resp.NavigateTo) // wraps from the oldest to the newest

	resp, err = env.svc.ApplicationService.ExecuteShortcut(env.db, id, "Escape", review.Filter{})
	require.NoError(t, err)
	assert.True(t, resp.Closed)

	_, err = env.svc.ApplicationService.ExecuteShortcut(env.db, id, "z", review.Filter{})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnknownShortcut))
}

func TestApplicationService_ExportCSV(t *testing.T) {
	env := newTestEnv(t)
	seedApplications(t, env)

	var buf bytes.Buffer
	n, err := env.svc.ApplicationService.ExportCSV(env.db, review.Filter{Facet: review.FacetFlagged}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, review.CSVHeader, rows[0])
	assert.Equal(t, "Grace Hopper", rows[1][1])
	assert.Equal(t, "Yes", rows[1][7])
}

func TestApplicationService_DocumentLinks(t *testing.T) {
	env := newTestEnv(t)
	app := env.createApplication(t, &models.Application{
		FirstName: "Ada", LastName: "L", Email: "ada@x.com",
		ResumeURL: "applications/s1/resume-1.pdf",
		MemoURL:   "applications/s1/memo-1.pdf",
	})

	links, err := env.svc.ApplicationService.DocumentLinks(ctx, env.db, app.ID)
	require.NoError(t, err)
	require.Len(t, links.Documents, 2)
	assert.Equal(t, "resume", links.Documents[0].Kind)
	assert.Equal(t, "memo", links.Documents[1].Kind)
	assert.Contains(t, links.Documents[0].URL, "signature=")
	assert.WithinDuration(t, time.Now().Add(time.Hour), links.Documents[0].ExpiresAt, time.Minute)
}
