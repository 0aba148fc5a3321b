package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		DefaultRole: "customer",
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong password", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateToken(cfg, 42, "noa", "clerk")
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "noa", claims.Username)
	assert.Equal(t, "clerk", claims.Role)
	assert.NotEmpty(t, claims.ID)

	// 每个令牌的 jti 唯一
	token2, err := GenerateToken(cfg, 42, "noa", "clerk")
	require.NoError(t, err)
	claims2, err := ParseToken(cfg, token2)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, claims2.ID)
}

func TestTokenRejection(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateToken(cfg, 1, "noa", "customer")
	require.NoError(t, err)

	// 密钥不匹配
	wrong := cfg
	wrong.JWTSecret = "other-secret"
	_, err = ParseToken(wrong, token)
	assert.Error(t, err)

	// 过期令牌
	expired := cfg
	expired.TokenTTL = -time.Hour
	token, err = GenerateToken(expired, 1, "noa", "customer")
	require.NoError(t, err)
	_, err = ParseToken(cfg, token)
	assert.Error(t, err)

	// 畸形令牌
	_, err = ParseToken(cfg, "not.a.token")
	assert.Error(t, err)
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, testConfig().Enabled())
}
