package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/oumizumi/kairo-api/pkg/errors"
)

func TestIssueAndValidateToken(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour, nil)

	token, err := svc.IssueToken("user-1", "student@uottawa.ca", "Test Student")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "student@uottawa.ca", claims.Email)
}

func TestValidateTokenRejectsBadSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", time.Hour, nil)
	verifier := NewAuthService("secret-b", time.Hour, nil)

	token, err := issuer.IssueToken("user-1", "", "")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService("test-secret", time.Nanosecond, nil)

	token, err := svc.IssueToken("user-1", "", "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret", time.Hour, nil)
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
