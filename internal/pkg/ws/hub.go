package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Hub struct {
	// 所有连接 + 按房间分组的连接（一个连接可加入多个房间）
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	UserID int64
	Conn   *websocket.Conn
	mu     sync.Mutex // 写锁，防止并发写入
	rooms  map[string]struct{}
}

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// RoomKey 文章房间的 key
func RoomKey(postID int64) string {
	return fmt.Sprintf("post_%d", postID)
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.rooms == nil {
		client.rooms = make(map[string]struct{})
	}
	h.clients[client] = struct{}{}
	log.Printf("Client connected (user %d), total: %d", client.UserID, len(h.clients))
}

// Unregister 移除连接并退出其全部房间
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client)
	for room := range client.rooms {
		h.removeFromRoom(client, room)
	}
	client.rooms = make(map[string]struct{})
	log.Printf("Client disconnected (user %d), total: %d", client.UserID, len(h.clients))
}

// JoinRoom 连接加入房间（客户端打开某篇文章的评论区时调用）
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
	client.rooms[room] = struct{}{}
}

// LeaveRoom 连接退出房间
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(client, room)
	delete(client.rooms, room)
}

// removeFromRoom 调用方必须持有 h.mu
func (h *Hub) removeFromRoom(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast 向所有连接广播事件
func (h *Hub) Broadcast(event string, data interface{}) error {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	return h.send(clients, event, data)
}

// BroadcastToRoom 只向房间内的连接广播事件
func (h *Hub) BroadcastToRoom(room, event string, data interface{}) error {
	h.mu.RLock()
	members, ok := h.rooms[room]
	if !ok {
		h.mu.RUnlock()
		return nil
	}
	// 复制一份引用，避免长时间持锁
	clients := make([]*Client, 0, len(members))
	for c := range members {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	return h.send(clients, event, data)
}

// send 逐个连接写出；单个连接写失败只记录日志，不影响其余连接
func (h *Hub) send(clients []*Client, event string, data interface{}) error {
	msg, err := json.Marshal(&Message{Event: event, Data: data})
	if err != nil {
		return err
	}

	for _, c := range clients {
		c.mu.Lock()
		err := c.Conn.WriteMessage(websocket.TextMessage, msg)
		c.mu.Unlock()
		if err != nil {
			log.Printf("Broadcast write error for user %d: %v", c.UserID, err)
		}
	}
	return nil
}

// InRoom 检查连接是否在房间内
func (h *Hub) InRoom(client *Client, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	members, ok := h.rooms[room]
	if !ok {
		return false
	}
	_, ok = members[client]
	return ok
}

// RoomSize 获取房间内的连接数
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ConnectionCount 获取在线连接数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
