package cron

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petguard/petguard_go_server/internal/model"
	"github.com/petguard/petguard_go_server/internal/pkg/readcount"
	"github.com/petguard/petguard_go_server/internal/testutil"
)

func TestService_RunNow(t *testing.T) {
	mr := miniredis.RunT(t)
	counter := readcount.NewCounter(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	require.NoError(t, counter.Incr(context.Background(), post.ID))
	require.NoError(t, counter.Incr(context.Background(), post.ID))

	svc := NewService(counter, db, time.Minute)
	require.NoError(t, svc.RunNow())

	var updated model.Post
	require.NoError(t, db.First(&updated, post.ID).Error)
	assert.Equal(t, int64(2), updated.ReadCount)
}

func TestService_StartStop(t *testing.T) {
	mr := miniredis.RunT(t)
	counter := readcount.NewCounter(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewService(counter, db, 10*time.Millisecond)
	svc.Start()

	// Stop 不应阻塞或 panic
	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestNewService_DefaultInterval(t *testing.T) {
	svc := NewService(nil, nil, 0)
	assert.Equal(t, time.Minute, svc.flushInterval)
}
