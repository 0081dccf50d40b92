package readcount

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petguard/petguard_go_server/internal/model"
	"github.com/petguard/petguard_go_server/internal/testutil"
)

func setupCounter(t *testing.T) *Counter {
	t.Helper()

	mr := miniredis.RunT(t)
	return NewCounter(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestCounter_Incr(t *testing.T) {
	counter := setupCounter(t)
	ctx := context.Background()

	require.NoError(t, counter.Incr(ctx, 42))
	require.NoError(t, counter.Incr(ctx, 42))
	require.NoError(t, counter.Incr(ctx, 7))

	pending, err := counter.Pending(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	pending, err = counter.Pending(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestCounter_Pending_NoKey(t *testing.T) {
	counter := setupCounter(t)

	pending, err := counter.Pending(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)
}

func TestCounter_Flush(t *testing.T) {
	counter := setupCounter(t)
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	ctx := context.Background()

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	for i := 0; i < 3; i++ {
		require.NoError(t, counter.Incr(ctx, post.ID))
	}

	flushed, err := counter.Flush(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, flushed)

	var updated model.Post
	require.NoError(t, db.First(&updated, post.ID).Error)
	assert.Equal(t, int64(3), updated.ReadCount)

	// 刷库后 key 清空，再 Flush 无事可做
	pending, err := counter.Pending(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)

	flushed, err = counter.Flush(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, flushed)
}
