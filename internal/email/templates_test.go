package email

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplates_RenderAll(t *testing.T) {
	tm, err := NewDefaultTemplateManager("")
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{TemplateMagicLink, TemplateAcceptance, TemplateConfirmation, TemplateApplicationInterest},
		tm.TemplateNames(),
	)

	html, err := tm.Render(TemplateMagicLink, TemplateData{"Link": "https://pareto.test/auth/callback?token=abc", "ExpiresInMinutes": 60})
	require.NoError(t, err)
	assert.Contains(t, html, "https://pareto.test/auth/callback?token=abc")
	assert.Contains(t, html, "60 minutes")

	html, err = tm.Render(TemplateAcceptance, TemplateData{"Name": "Ada", "TemporaryPassword": "Tmp-Pass-1", "LoginURL": "https://pareto.test/login"})
	require.NoError(t, err)
	assert.Contains(t, html, "Ada")
	assert.Contains(t, html, "Tmp-Pass-1")

	html, err = tm.Render(TemplateAcceptance, TemplateData{"Name": "Ada", "LoginURL": "https://pareto.test/login"})
	require.NoError(t, err)
	assert.NotContains(t, html, "temporary password below")
}

func TestRender_EscapesUserInput(t *testing.T) {
	tm, err := NewDefaultTemplateManager("")
	require.NoError(t, err)

	html, err := tm.Render(TemplateApplicationInterest, TemplateData{
		"FellowName": "<script>alert(1)</script>",
		"Position":   "Engineer",
		"Company":    "Acme",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestLoadTemplates_OverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "confirmation.html"), []byte("custom {{.Name}}"), 0o644))

	tm, err := NewDefaultTemplateManager(dir)
	require.NoError(t, err)

	html, err := tm.Render(TemplateConfirmation, TemplateData{"Name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "custom Ada", html)

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
}
