package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	identity := Identity{ID: 7, Role: domain.RoleAdmin}

	token, exp, err := tm.GenerateToken(identity)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	parsed, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity, parsed)
}

func TestTokenRejections(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	valid, _, err := tm.GenerateToken(Identity{ID: 3, Role: domain.RoleCustomer})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("secret", 1)
		later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err := later.ParseToken(valid)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", 1).ParseToken(valid)
		assert.Error(t, err)
	})

	t.Run("other hmac algorithm", func(t *testing.T) {
		claims := &Claims{
			Role: domain.RoleCustomer,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "3",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = tm.ParseToken(signed)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := &Claims{
			Role: domain.RoleCustomer,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "3",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tm.ParseToken(unsigned)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ParseToken("a.b.c")
		assert.Error(t, err)
	})

	t.Run("invalid identity is not signed", func(t *testing.T) {
		_, _, err := tm.GenerateToken(Identity{ID: 0, Role: domain.RoleCustomer})
		assert.Error(t, err)
		_, _, err = tm.GenerateToken(Identity{ID: 1, Role: "staff"})
		assert.Error(t, err)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.NoError(t, ComparePassword(hash, "password123"))
	assert.Error(t, ComparePassword(hash, "password124"))
}
