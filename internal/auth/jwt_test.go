package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndVerify(t *testing.T) {
	tok, err := Mint("s3cret", "demo", time.Hour)
	require.NoError(t, err)

	sub, err := Verify(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "demo", sub)

	_, err = Verify(tok, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejects(t *testing.T) {
	past := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "demo",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	tok, err := past.SignedString([]byte("s"))
	require.NoError(t, err)
	_, err = Verify(tok, "s")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "demo"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = Verify(none, "s")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iss": "x"}).SignedString([]byte("s"))
	require.NoError(t, err)
	_, err = Verify(noSub, "s")
	assert.ErrorIs(t, err, ErrInvalidClaims)

	numeric, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 42}).SignedString([]byte("s"))
	require.NoError(t, err)
	sub, err := Verify(numeric, "s")
	require.NoError(t, err)
	assert.Equal(t, "42", sub)

	_, err = Mint("", "demo", 0)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "abc", "Basic abc"} {
		_, err := BearerToken(h)
		assert.ErrorIs(t, err, ErrMissingAuthHeader)
	}
}
