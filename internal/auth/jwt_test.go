package auth_test

import (
	"testing"
	"time"

	"github.com/SergeiKhy/shorturl-service/internal/auth"
	"github.com/SergeiKhy/shorturl-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = &models.User{
	ID:     "2b1d6e4a-5c6f-4f0e-9a57-2c9d8d0e7f11",
	Email:  "a@x.com",
	Name:   "Alice",
	RollNo: "R1",
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := auth.NewTokenManager("secret", 24*time.Hour).WithClock(func() time.Time { return now })

	token, expiresAt, err := tm.Issue(testUser)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, now.Add(24*time.Hour), expiresAt)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, claims.Subject)
	assert.Equal(t, testUser.Email, claims.Email)
	assert.Equal(t, testUser.Name, claims.Name)
	assert.Equal(t, testUser.RollNo, claims.RollNo)
}

func TestTokenManager_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := auth.NewTokenManager("secret", time.Hour).WithClock(func() time.Time { return now })

	token, _, err := tm.Issue(testUser)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("secret", time.Hour).Issue(testUser)
	require.NoError(t, err)

	_, err = auth.NewTokenManager("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testUser.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "token %q", token)
	}
}
