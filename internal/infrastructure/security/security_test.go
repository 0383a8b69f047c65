package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)

	token, err := m.Generate("user-1", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "user-1", Role: "admin"}, claims)
}

func TestTokenRejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Minute).Generate("user-1", "student")
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Minute).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	m.accessTTL = -time.Minute

	token, err := m.Generate("user-1", "student")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)

	hash, err := h.Hash("abcdef")
	require.NoError(t, err)

	assert.NoError(t, h.Compare(hash, "abcdef"))
	assert.Error(t, h.Compare(hash, "abcdeg"))
}
