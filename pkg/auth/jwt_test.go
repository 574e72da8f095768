package auth_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/pkg/auth"
	"github.com/shashiranjanraj/canteen/pkg/cache"
)

func TestPairRoundTrip(t *testing.T) {
	pair, err := auth.IssuePair(7, "seller")
	require.NoError(t, err)

	c, err := auth.ValidateAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), c.UserID)
	assert.Equal(t, "seller", c.Role)
	assert.NotEmpty(t, c.ID)

	_, err = auth.ValidateAccess(pair.Refresh)
	assert.ErrorIs(t, err, auth.ErrWrongTokenType)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	pair, err := auth.IssuePair(1, "student")
	require.NoError(t, err)

	_, err = auth.RefreshAccess(context.Background(), pair.Access)
	assert.ErrorIs(t, err, auth.ErrWrongTokenType)
}

func TestRevokedRefreshTokenIsRejected(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.Use(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.Use(nil) })
	ctx := context.Background()

	pair, err := auth.IssuePair(3, "student")
	require.NoError(t, err)

	access, err := auth.RefreshAccess(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	require.NoError(t, auth.Revoke(ctx, pair.Refresh))
	_, err = auth.RefreshAccess(ctx, pair.Refresh)
	assert.ErrorIs(t, err, auth.ErrRevoked)
}

func TestTamperedTokenFails(t *testing.T) {
	tok, err := auth.GenerateToken(1, "student")
	require.NoError(t, err)

	_, err = auth.ValidateToken(tok + "x")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword(hash, "hunter22"))
	assert.False(t, auth.CheckPassword(hash, "hunter23"))
}
