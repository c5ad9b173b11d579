package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestTokenServiceIssueAndValidate(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret", Issuer: "timetable-api", Expiry: time.Hour})

	token, expiresAt, err := svc.Issue("user-1", models.RoleTeacher)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "timetable-api", claims.Issuer)
}

func TestTokenServiceRejectsForeignTokens(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret", Issuer: "timetable-api"})

	other := NewTokenService(TokenConfig{Secret: "other", Issuer: "timetable-api"})
	token, _, err := other.Issue("user-1", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	wrongIssuer := NewTokenService(TokenConfig{Secret: "s3cret", Issuer: "someone-else"})
	token, _, err = wrongIssuer.Issue("user-1", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.ValidateToken("not-a-token")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestTokenServiceRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret", Expiry: time.Minute})
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Issue("user-1", models.RoleAdmin)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestTokenServiceNormalisesRoleAndSubject(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret"})
	claims := jwt.MapClaims{
		"role": "admin",
		"sub":  "user-9",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", parsed.UserID)
	assert.Equal(t, models.RoleAdmin, parsed.Role)
}

func TestTokenServiceIssueValidation(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: "s3cret"})
	_, _, err := svc.Issue(" ", models.RoleAdmin)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	_, _, err = svc.Issue("user-1", models.UserRole("GUEST"))
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
