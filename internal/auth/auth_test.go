package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pareto_backend/internal/models"
)

func TestPasswordStrength(t *testing.T) {
	cases := map[string]int{
		"":              0,
		"abc":           1,
		"abcdefgh":      2,
		"Abcdefgh":      3,
		"Abcdefg1":      4,
		"Abcdef1!":      5,
		"ABCDEFGH1!":    4,
		"short1!":       3,
		"pässwörd":      2,
		"Correct Horse": 4,
	}
	for pw, want := range cases {
		assert.Equal(t, want, PasswordStrength(pw), "password %q", pw)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("abcdefgh", 4), ErrPasswordTooWeak)
	assert.NoError(t, ValidatePassword("Abcdefg1", 4))
}

func TestGenerateTemporaryPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		pw, err := GenerateTemporaryPassword(16)
		require.NoError(t, err)
		assert.Len(t, pw, 16)
		assert.Equal(t, MaxPasswordScore, PasswordStrength(pw))
		seen[pw] = true
	}
	assert.Len(t, seen, 20)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Abcdef1!")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("Abcdef1!", hash))
	assert.False(t, CheckPasswordHash("abcdef1!", hash))
	assert.False(t, CheckPasswordHash("anything", ""))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	user := &models.User{Email: "ada@example.com", MustChangePassword: true}
	user.ID = "u-1"

	token, exp, err := m.Generate(user, models.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.MustChangePassword)

	_, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	user := &models.User{Email: "ada@example.com"}
	user.ID = "u-1"
	token, _, err := m.Generate(user, models.RoleFellow)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMagicToken(t *testing.T) {
	token, hash, err := GenerateMagicToken()
	require.NoError(t, err)
	assert.Len(t, token, 43)
	assert.Equal(t, HashToken(token), hash)
	assert.NotEqual(t, token, hash)

	other, _, err := GenerateMagicToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestRedirectFor(t *testing.T) {
	assert.Equal(t, RedirectChangePassword, RedirectFor(models.RoleAdmin, true, true))
	assert.Equal(t, RedirectAdmin, RedirectFor(models.RoleAdmin, false, false))
	assert.Equal(t, RedirectAdmin, RedirectFor(models.RoleSuperAdmin, false, false))
	assert.Equal(t, RedirectOnboarding, RedirectFor(models.RoleFellow, false, false))
	assert.Equal(t, RedirectPortal, RedirectFor(models.RoleFellow, false, true))
	assert.Equal(t, RedirectPortal, RedirectFor(models.RoleAlumni, false, true))
}

func TestParseRoleDefaultsToFellow(t *testing.T) {
	assert.Equal(t, models.RoleFellow, models.ParseRole(""))
	assert.Equal(t, models.RoleFellow, models.ParseRole("owner"))
	assert.Equal(t, models.RoleAlumni, models.ParseRole("alumni"))
}
