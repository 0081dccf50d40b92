package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelRealtimeEvents = "realtime_events"
)

// 实时事件名（与前端约定，不可改动）
const (
	EventUpdateComments   = "update-comments"
	EventDeleteComment    = "delete-comment"
	EventUpdateImgProfile = "update-img-profile"
)

// EventMessage 实时事件消息。Room 为空表示全局广播，
// 否则只发给对应房间（post_<id>）内的连接
type EventMessage struct {
	Event   string          `json:"event"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishEvent 发布实时事件。payload 会被序列化后原样转发给客户端
func (p *Publisher) PublishEvent(ctx context.Context, event, room string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := &EventMessage{
		Event:   event,
		Room:    room,
		Payload: raw,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event message: %w", err)
	}

	return p.client.Publish(ctx, ChannelRealtimeEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅实时事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*EventMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelRealtimeEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event EventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
