package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Whitelist:     make(map[string]bool),
		Blacklist:     make(map[string]bool),
		EndpointConfigs: []EndpointConfig{
			{Path: "/score", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
			{Path: "/personas/", Method: "POST", Limit: 5, Window: time.Minute, Burst: 5},
		},
	}
}

func TestLimiter_BurstThenThrottle(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.2.3.4", "/score", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("1.2.3.4", "/score", "POST")
	assert.True(t, allowed)

	allowed, info := limiter.Allow("1.2.3.4", "/score", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 2, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/score", "POST")
		require.True(t, allowed)
	}

	allowed, _ := limiter.Allow("5.6.7.8", "/score", "POST")
	assert.True(t, allowed)
}

func TestLimiter_PrefixMatch(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/personas/abc/corrections", "POST")
		require.True(t, allowed)
	}
	allowed, _ := limiter.Allow("1.2.3.4", "/personas/abc/corrections", "POST")
	assert.False(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter := NewLimiter(testConfig())
	defer limiter.Stop()

	for i := 0; i < 500; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Blacklist["6.6.6.6"] = true

	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("6.6.6.6", "/score", "POST")
	assert.False(t, allowed)
}

func TestLimiter_Whitelist(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist["9.9.9.9"] = true

	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("9.9.9.9", "/score", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/score", "POST")
		require.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := testConfig().EndpointConfigs

	match := MatchEndpoint("/score", "POST", configs)
	require.NotNil(t, match)
	assert.Equal(t, 2, match.Limit)

	match = MatchEndpoint("/personas/abc", "POST", configs)
	require.NotNil(t, match)
	assert.Equal(t, 5, match.Limit)

	assert.Nil(t, MatchEndpoint("/personas/abc", "GET", configs))

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Equal(t, 0, health.Limit)
}
