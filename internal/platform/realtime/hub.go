// Package realtime はクライアントとの常時接続チャネル（WebSocket）を提供します。
// 接続と切断を記録するのみで、アプリケーションメッセージは配信しません。
package realtime

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// closeGrace は終了時にクローズフレームを書き込む猶予です。
const closeGrace = time.Second

// Hub は接続中のクライアントを管理します。
type Hub struct {
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	closed bool
}

// NewHub はHubを生成します。allowedOrigins が空または "*" を含む場合は全てのオリジンを許可します。
func NewHub(allowedOrigins []string) *Hub {
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handle はHTTP接続をWebSocketにアップグレードし、切断されるまで受信フレームを読み捨てます。
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade がエラー応答を書き込み済み
		slog.Warn("websocket upgrade failed", "error", err, "remote_addr", c.ClientIP())
		return
	}

	if !h.add(conn) {
		_ = conn.Close()
		return
	}
	slog.Info("client connected", "remote_addr", c.ClientIP(), "connections", h.Count())

	defer func() {
		h.remove(conn)
		_ = conn.Close()
		slog.Info("client disconnected", "remote_addr", c.ClientIP(), "connections", h.Count())
	}()

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// Count は接続中のクライアント数を返します。
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close は全ての接続にクローズフレームを送って切断し、以降の接続を拒否します。
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
		_ = conn.Close()
	}
}

func (h *Hub) add(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[conn] = struct{}{}
	return true
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}
