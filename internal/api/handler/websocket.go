package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/petguard/petguard_go_server/internal/api/middleware"
	"github.com/petguard/petguard_go_server/internal/pkg/jwt"
	"github.com/petguard/petguard_go_server/internal/pkg/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 生产环境需要验证 Origin
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// clientCommand 客户端上行消息，目前只有加入/离开文章房间
type clientCommand struct {
	Action string `json:"action"`
	PostID int64  `json:"post_id"`
}

type WebSocketHandler struct {
	hub       *ws.Hub
	jwtSecret string
}

func NewWebSocketHandler(hub *ws.Hub, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// Handle WebSocket 连接处理
// GET /api/v1/ws?token=xxx（token 也可来自 cookie）
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token, _ = c.Cookie(middleware.TokenCookie)
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &ws.Client{
		UserID: claims.UserID,
		Conn:   conn,
	}

	h.hub.Register(client)

	// 读循环：处理房间订阅指令，同时检测断开
	go func() {
		defer h.hub.Unregister(client)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				break
			}

			var cmd clientCommand
			if err := json.Unmarshal(data, &cmd); err != nil {
				continue
			}

			switch cmd.Action {
			case "join":
				if cmd.PostID > 0 {
					h.hub.JoinRoom(client, ws.RoomKey(cmd.PostID))
				}
			case "leave":
				if cmd.PostID > 0 {
					h.hub.LeaveRoom(client, ws.RoomKey(cmd.PostID))
				}
			}
		}
	}()
}
