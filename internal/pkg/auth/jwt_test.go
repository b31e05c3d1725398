package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudhb/achievehub/internal/app/models"
)

func testService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "achievehub-test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:         42,
		Email:      "ravi@college.edu",
		RoleType:   models.RoleStudent,
		Department: "CSE",
	}
}

func TestGenerateAndValidate(t *testing.T) {
	svc := testService(time.Hour)

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, 86400, refreshExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ravi@college.edu", claims.Email)
	assert.Equal(t, "student", claims.RoleType)
	assert.Equal(t, "CSE", claims.Department)
	assert.Equal(t, "achievehub-test", claims.Issuer)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := testService(-time.Minute)

	accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateWrongSecret(t *testing.T) {
	accessToken, _, _, _, err := testService(time.Hour).GenerateTokenPair(testUser())
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "different-secret", AccessTokenExp: time.Hour})
	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestValidateEmptyToken(t *testing.T) {
	svc := testService(time.Hour)

	_, err := svc.ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// Raw tokens are accepted too
	token, err = ExtractBearerToken("abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass1")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass1", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass1"))
	assert.False(t, CheckPassword(hash, "wrong-pass1"))
}
