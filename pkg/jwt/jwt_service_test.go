package jwt

import (
	"context"
	"testing"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/internal/utils"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *jwtService {
	t.Helper()
	utils.SetConfig("JWT_SECRET", "test-secret")
	return NewJWTService(NewJWTRepository(testutil.NewDB(t))).(*jwtService)
}

func TestGenerateAndParse(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	token, err := s.GenerateTokenUser(7)
	require.NoError(t, err)

	claims, err := s.ParseUserToken(ctx, token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.NotEmpty(t, claims.ID)

	other, err := s.GenerateTokenUser(7)
	require.NoError(t, err)
	otherClaims, err := s.ParseUserToken(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestParseRejectsBadTokens(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.ParseUserToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	token, err := s.GenerateTokenUser(1)
	require.NoError(t, err)
	s.secretKey = "rotated"
	_, err = s.ParseUserToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	s := newService(t)
	s.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	token, err := s.GenerateTokenUser(1)
	require.NoError(t, err)

	_, err = s.ParseUserToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	token, err := s.GenerateTokenUser(3)
	require.NoError(t, err)
	claims, err := s.ParseUserToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, s.RevokeToken(ctx, claims))
	// revoking twice is harmless
	require.NoError(t, s.RevokeToken(ctx, claims))

	_, err = s.ParseUserToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	assert.ErrorIs(t, s.RevokeToken(ctx, nil), domain.ErrTokenNotFound)
}

func TestEmptySecretIsRefused(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "forged",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(""))
	require.NoError(t, err)

	_, err = s.ParseUserToken(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	s.secretKey = ""
	_, err = s.GenerateTokenUser(1)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = s.ParseUserToken(ctx, forged)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
