package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	user := &User{Email: "user@example.com"}
	require.NoError(t, user.SetPassword("correct horse battery"))

	match, err := user.IsPasswordMatch("correct horse battery")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = user.IsPasswordMatch("wrong password")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestTokenRoundTrip(t *testing.T) {
	a := New("test-secret", time.Hour)
	user := &User{Email: "admin@example.com", Name: "관리자", Role: "admin"}

	token, err := a.GenerateToken(user)
	require.NoError(t, err)

	claim, err := a.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claim.Email)
	assert.Equal(t, "관리자", claim.Name)
	assert.Equal(t, "admin", claim.Role)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	a := New("test-secret", time.Hour)
	user := &User{Email: "user@example.com"}

	token, err := a.GenerateToken(user)
	require.NoError(t, err)

	other := New("different-secret", time.Hour)
	_, err = other.Authenticate(token)
	assert.Error(t, err)

	_, err = a.Authenticate("not-a-token")
	assert.Error(t, err)
}

func TestRequestContextRoundTrip(t *testing.T) {
	a := New("test-secret", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.False(t, a.IsUserAuthenticated(req))
	_, err := a.GetAuthenticatedUser(req)
	assert.ErrorIs(t, err, NotAuthenticatedUser)

	req = a.SetAuthenticatedUser(req, &User{Email: "user@example.com"})

	assert.True(t, a.IsUserAuthenticated(req))
	user, err := a.GetAuthenticatedUser(req)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
}
