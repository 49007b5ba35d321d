package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	u := &models.User{ID: uuid.New(), Email: "coord@ecc.org", Role: models.RoleSectorCouple}

	token, err := GenerateToken(u, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, models.RoleSectorCouple, claims.Role)
}

func TestParseToken_Rejects(t *testing.T) {
	u := &models.User{ID: uuid.New(), Email: "a@b.com", Role: models.RoleCoupleUser}

	expired, err := GenerateToken(u, "secret", -time.Minute)
	require.NoError(t, err)
	valid, err := GenerateToken(u, "secret", time.Hour)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: u.ID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct {
		token  string
		secret string
	}{
		"expired":      {expired, "secret"},
		"wrong secret": {valid, "other"},
		"alg none":     {unsigned, "secret"},
		"garbage":      {"not.a.token", "secret"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tc.token, tc.secret)
			assert.Error(t, err)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nha-forte", hash)
	assert.True(t, CheckPassword(hash, "s3nha-forte"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "s3nha-forte"))
}
