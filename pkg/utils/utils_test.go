package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("test-secret", 4*time.Hour)
	require.NoError(t, err)

	token, issued, err := tm.Generate("user-a", "alice", "Employee")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID, "jti should be set")

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-a", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Employee", claims.Role)
	assert.False(t, tm.NeedsRenewal(claims))
}

func TestTokenManagerRejectsForeignSignature(t *testing.T) {
	a, err := NewTokenManager("secret-a", time.Hour)
	require.NoError(t, err)
	b, err := NewTokenManager("secret-b", time.Hour)
	require.NoError(t, err)

	token, _, err := a.Generate("user-a", "alice", "Employee")
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.Error(t, err)
}

func TestTokenManagerExpiryAndRenewal(t *testing.T) {
	tm, err := NewTokenManager("secret", 4*time.Hour)
	require.NoError(t, err)
	start := time.Now()
	tm.now = func() time.Time { return start }

	token, _, err := tm.Generate("user-a", "alice", "Employee")
	require.NoError(t, err)

	tm.now = func() time.Time { return start.Add(3 * time.Hour) }
	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.True(t, tm.NeedsRenewal(claims))

	tm.now = func() time.Time { return start.Add(5 * time.Hour) }
	_, err = tm.Validate(token)
	assert.Error(t, err)
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySigningKey)
}

func TestPasswordPolicyViolations(t *testing.T) {
	assert.Empty(t, PasswordPolicyViolations("Test123$", 8))
	assert.Contains(t, PasswordPolicyViolations("Te1$", 8), "too short")
	assert.Contains(t, PasswordPolicyViolations("test123$", 8), "needs an uppercase letter")
	assert.Contains(t, PasswordPolicyViolations("TEST123$", 8), "needs a lowercase letter")
	assert.Contains(t, PasswordPolicyViolations("Testtest$", 8), "needs a digit")
	assert.Contains(t, PasswordPolicyViolations("Test1234", 8), "needs a non-alphanumeric character")
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, in := range []string{"", "0", "-3", "abc"} {
		_, ok := ParseID(in)
		assert.False(t, ok, in)
	}
}
