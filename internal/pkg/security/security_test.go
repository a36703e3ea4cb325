package security

import (
	"Folio/internal/api/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(config.JWTConfig{Secret: "s3cret", Issuer: "folio", ExpirationHours: 1})

	token, exp, err := issuer.GenerateToken(42, "amy", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "amy", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer(config.JWTConfig{Secret: "s3cret", Issuer: "folio", ExpirationHours: 1})
	other := NewTokenIssuer(config.JWTConfig{Secret: "other", Issuer: "folio", ExpirationHours: 1})

	foreign, _, err := other.GenerateToken(1, "bob", "user")
	require.NoError(t, err)

	expiredIssuer := NewTokenIssuer(config.JWTConfig{Secret: "s3cret", Issuer: "folio", ExpirationHours: 1})
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredIssuer.GenerateToken(1, "bob", "user")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestExtractSignature(t *testing.T) {
	sig, err := ExtractSignature("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "c", sig)

	_, err = ExtractSignature("a.b")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, CheckPasswordHash("hunter22", hash))
	assert.ErrorIs(t, CheckPasswordHash("wrong", hash), ErrInvalidCredentials)

	_, err = HashPassword("")
	assert.Error(t, err)
}
