package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestEventMessage_JSON(t *testing.T) {
	payload, err := json.Marshal(map[string][]int64{"deletedIds": {1, 2, 3}})
	require.NoError(t, err)

	msg := &EventMessage{
		Event:   EventDeleteComment,
		Room:    "post_42",
		Payload: payload,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded EventMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, EventDeleteComment, decoded.Event)
	assert.Equal(t, "post_42", decoded.Room)
	assert.JSONEq(t, string(payload), string(decoded.Payload))
}

func TestEventMessage_GlobalOmitsRoom(t *testing.T) {
	msg := &EventMessage{
		Event:   EventUpdateComments,
		Payload: json.RawMessage(`{"comment_id":1}`),
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "room")
}

func TestPublishSubscribe_RoundTrip(t *testing.T) {
	rdb := setupRedis(t)

	publisher := NewPublisher(rdb)
	subscriber := NewSubscriber(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *EventMessage, 1)
	go func() {
		subscriber.Subscribe(ctx, func(msg *EventMessage) {
			received <- msg
		})
	}()

	// 等订阅建立
	time.Sleep(100 * time.Millisecond)

	err := publisher.PublishEvent(ctx, EventDeleteComment, "post_7", map[string][]int64{"deletedIds": {4, 5}})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, EventDeleteComment, msg.Event)
		assert.Equal(t, "post_7", msg.Room)

		var payload map[string][]int64
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, []int64{4, 5}, payload["deletedIds"])
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestSubscribe_ContextCancel(t *testing.T) {
	rdb := setupRedis(t)
	subscriber := NewSubscriber(rdb)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, func(*EventMessage) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
