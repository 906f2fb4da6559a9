package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, c.Mentors)
	assert.NotEmpty(t, c.Testimonials)
	assert.NotEmpty(t, c.Samples.Demographics)
	assert.NotEmpty(t, c.Samples.ReviewerConsistency)
	assert.NotEmpty(t, c.Samples.TimeToReview)
	for _, m := range c.Mentors {
		assert.NotEmpty(t, m.Name)
	}
}

func TestLoad_OverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "mentors.yaml"), []byte("- name: Ada\n  title: Mentor\n"), 0o644)
	require.NoError(t, err)

	c, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, c.Mentors, 1)
	assert.Equal(t, "Ada", c.Mentors[0].Name)
	// untouched files come from the embedded copy
	assert.NotEmpty(t, c.Testimonials)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "testimonials.yaml"), []byte("{not: [valid"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
