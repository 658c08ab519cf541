package auth

import (
	"testing"
	"time"

	"passport/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuerConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = secret
	if ttl != 0 {
		cfg.Auth = &config.AuthConfig{AccessTokenTTL: ttl}
	}

	return cfg
}

func TestNewJWTIssuer_RequiresSecret(t *testing.T) {
	_, err := NewJWTIssuer(issuerConfig("", 0))
	assert.Error(t, err)
}

func TestJWTIssuer_IssueAndValidate(t *testing.T) {
	issuer, err := NewJWTIssuer(issuerConfig("test-secret", time.Hour))
	require.NoError(t, err)

	token, err := issuer.Issue("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTIssuer_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTIssuer(issuerConfig("test-secret", time.Hour))
	require.NoError(t, err)

	other, err := NewJWTIssuer(issuerConfig("other-secret", time.Hour))
	require.NoError(t, err)

	token, err := issuer.Issue("user@example.com")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTIssuer_RejectsExpiredToken(t *testing.T) {
	issuer, err := NewJWTIssuer(issuerConfig("test-secret", time.Hour))
	require.NoError(t, err)

	// Sign directly with a past expiry; the public TTL floor prevents
	// configuring a negative lifetime.
	expired := &jwtIssuer{secret: "test-secret", ttl: -time.Minute}

	token, err := expired.Issue("user@example.com")
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestJWTIssuer_RejectsGarbage(t *testing.T) {
	issuer, err := NewJWTIssuer(issuerConfig("test-secret", time.Hour))
	require.NoError(t, err)

	_, err = issuer.Validate("not.a.token")
	assert.Error(t, err)
}
