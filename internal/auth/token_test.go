package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolvenow/complaint-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 24*time.Hour)
	user := &domain.User{ID: "u-1", Role: domain.RoleAgent}

	token, exp, err := tm.GenerateToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 2*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, domain.RoleAgent, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenExpiry(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", time.Hour).WithClock(func() time.Time { return issued })

	token, _, err := tm.GenerateToken(&domain.User{ID: "u-1", Role: domain.RoleUser})
	require.NoError(t, err)

	later := tm.WithClock(func() time.Time { return issued.Add(2 * time.Hour) })
	_, err = later.ParseToken(token)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)

	_, err = tm.ParseToken(token)
	assert.NoError(t, err)
}

func TestTokenTamperingRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(&domain.User{ID: "u-1", Role: domain.RoleUser})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(payload, &body))
	body["role"] = "admin"
	forged, err := json.Marshal(body)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = tm.ParseToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = NewTokenManager("other", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	for _, raw := range []string{"", "garbage", "a.b.c", base64.StdEncoding.EncodeToString([]byte(`{"userId":"1","exp":1}`))} {
		_, err := tm.ParseToken(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, raw)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("user123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "user123", hash)
	assert.NoError(t, ComparePassword(hash, "user123"))
	assert.Error(t, ComparePassword(hash, "User123"))
}
