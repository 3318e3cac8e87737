package service

import (
	"context"
	"testing"
	"time"

	"learnquest/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	f := newFixture()
	id := f.store.seedUser("alice", 0, 0)
	u := f.store.user(id)

	pair, err := f.tokens.Issue(u)
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, ok := f.tokens.Verify(pair.AccessToken, TokenAccess)
	require.True(t, ok)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, TokenAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, f.now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	refresh, ok := f.tokens.Verify(pair.RefreshToken, TokenRefresh)
	require.True(t, ok)
	assert.Empty(t, refresh.Username)
	assert.Equal(t, f.now.Add(7*24*time.Hour).Unix(), refresh.ExpiresAt.Unix())
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	f := newFixture()
	u := f.store.user(f.store.seedUser("alice", 0, 0))

	pair, err := f.tokens.Issue(u)
	require.NoError(t, err)

	_, ok := f.tokens.Verify(pair.RefreshToken, TokenAccess)
	assert.False(t, ok)
	_, ok = f.tokens.Verify(pair.AccessToken, TokenRefresh)
	assert.False(t, ok)
}

func TestVerifyRejectsExpired(t *testing.T) {
	f := newFixture()
	u := f.store.user(f.store.seedUser("alice", 0, 0))

	pair, err := f.tokens.Issue(u)
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)
	_, ok := f.tokens.Verify(pair.AccessToken, TokenAccess)
	assert.False(t, ok, "access token outlived its lifetime")

	_, ok = f.tokens.Verify(pair.RefreshToken, TokenRefresh)
	assert.True(t, ok, "refresh token lives longer than access")

	f.now = f.now.Add(7 * 24 * time.Hour)
	_, ok = f.tokens.Verify(pair.RefreshToken, TokenRefresh)
	assert.False(t, ok)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	f := newFixture()
	now := f.now

	claims := func() *Claims {
		return &Claims{
			UserID: 1,
			Kind:   TokenAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "learnquest",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims()).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	otherAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims()).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp := claims()
	noExp.ExpiresAt = nil
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"other key": otherKey,
		"other alg": otherAlg,
		"unsigned":  unsigned,
		"no expiry": noExpiry,
		"empty":     "",
		"not a jwt": "abc.def.ghi",
		"truncated": otherKey[:len(otherKey)-4],
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := f.tokens.Verify(token, TokenAccess)
			assert.False(t, ok)
		})
	}
}

func TestResolveUser(t *testing.T) {
	f := newFixture()
	id := f.store.seedUser("alice", 0, 0)
	pair, err := f.tokens.Issue(f.store.user(id))
	require.NoError(t, err)

	u, ok := f.tokens.ResolveUser(context.Background(), pair.AccessToken)
	require.True(t, ok)
	assert.Equal(t, id, u.ID)

	_, ok = f.tokens.ResolveUser(context.Background(), pair.RefreshToken)
	assert.False(t, ok)

	delete(f.store.users, id)
	_, ok = f.tokens.ResolveUser(context.Background(), pair.AccessToken)
	assert.False(t, ok, "deleted user must not resolve")
}

func TestRefresh(t *testing.T) {
	f := newFixture()
	id := f.store.seedUser("alice", 0, 0)
	pair, err := f.tokens.Issue(f.store.user(id))
	require.NoError(t, err)

	f.now = f.now.Add(3 * time.Hour)
	next, ok := f.tokens.Refresh(context.Background(), pair.RefreshToken)
	require.True(t, ok)

	claims, ok := f.tokens.Verify(next.AccessToken, TokenAccess)
	require.True(t, ok)
	assert.Equal(t, id, claims.UserID)

	// refresh tokens are not single-use
	_, ok = f.tokens.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, ok)

	_, ok = f.tokens.Refresh(context.Background(), next.AccessToken)
	assert.False(t, ok, "access token cannot refresh")

	f.store.users = map[int64]*domain.User{}
	_, ok = f.tokens.Refresh(context.Background(), pair.RefreshToken)
	assert.False(t, ok)
}
