package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/decker502/vibedefense/pkg/event"
	"github.com/decker502/vibedefense/pkg/game"
)

const (
	// MaxWSConnectionsTotal WebSocket 连接总数上限
	MaxWSConnectionsTotal = 200

	// MaxWSConnectionsPerIP 每个 IP 的 WebSocket 连接上限
	MaxWSConnectionsPerIP = 8

	wsWriteTimeout = 2 * time.Second
)

// Message WebSocket 推送的消息格式
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// Hub 管理所有 WebSocket 连接
//
// clients 只由 Run 所在的 goroutine 读写；其他 goroutine 通过通道与其交互。
type Hub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	done       chan struct{}
	count      atomic.Int32
	limiter    *connLimiter
	upgrader   websocket.Upgrader
}

// NewHub 创建 Hub，需调用 Run 才开始工作
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		limiter:    newConnLimiter(MaxWSConnectionsPerIP),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     checkOrigin,
	}
	return h
}

// checkOrigin 放行非浏览器客户端（无 Origin）和本机页面
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || IsLocalOrigin(origin) {
		return true
	}
	log.Printf("[API] WebSocket connection rejected from origin: %s", origin)
	RecordConnectionRejected("origin")
	return false
}

// IsLocalOrigin 判断 Origin 是否指向本机
func IsLocalOrigin(origin string) bool {
	for _, prefix := range []string{"http://localhost", "http://127.0.0.1", "https://localhost"} {
		if origin == prefix || strings.HasPrefix(origin, prefix+":") {
			return true
		}
	}
	return false
}

// Run 处理注册、注销和广播，直到 ctx 取消
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for conn, c := range h.clients {
				h.drop(conn, c)
			}
			return

		case c := <-h.register:
			h.clients[c.conn] = c
			h.count.Store(int32(len(h.clients)))
			UpdateWSConnections(len(h.clients))
			log.Printf("[API] WebSocket client connected from %s (%d total)", c.ip, len(h.clients))

		case conn := <-h.unregister:
			if c, ok := h.clients[conn]; ok {
				h.drop(conn, c)
				log.Printf("[API] WebSocket client disconnected (%d remaining)", len(h.clients))
			}

		case msg := <-h.broadcast:
			for conn, c := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					h.drop(conn, c)
				}
			}
			IncrementWSMessages()
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn, c *wsClient) {
	delete(h.clients, conn)
	h.limiter.release(c.ip)
	conn.Close()
	h.count.Store(int32(len(h.clients)))
	UpdateWSConnections(len(h.clients))
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Broadcast 编码并排队一条消息，队列满时丢弃
func (h *Hub) Broadcast(eventName string, data any) {
	payload, err := json.Marshal(Message{Event: eventName, Data: data})
	if err != nil {
		log.Printf("[API] Failed to encode %s message: %v", eventName, err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

// BroadcastSnapshot 推送一帧快照
func (h *Hub) BroadcastSnapshot(snap game.Snapshot) {
	if h.ClientCount() == 0 {
		return
	}
	h.Broadcast("state", snap)
}

// OnEvent 实现 event.Listener，把游戏事件转发给客户端
func (h *Hub) OnEvent(e event.Event) {
	if h.ClientCount() == 0 {
		return
	}
	h.Broadcast("event", e)
}

// ServeHTTP 升级连接并注册到 Hub
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.limiter.acquire(ip) {
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] WebSocket upgrade error: %v", err)
		h.limiter.release(ip)
		return
	}

	select {
	case h.register <- &wsClient{conn: conn, ip: ip}:
	case <-h.done:
		h.limiter.release(ip)
		conn.Close()
		return
	}

	// 客户端只接收推送，读循环仅用于发现断开
	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
