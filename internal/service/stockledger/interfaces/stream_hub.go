package interfaces

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"

	"warehouse/internal/pkg/logger"
	"warehouse/internal/service/stockledger/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool { // 只读的推送流，允许所有跨域
		return true
	},
}

// StreamHub 维护所有 /stream 连接，并把库存变更广播给它们。
// 慢客户端的发送缓冲满了之后消息会被丢弃，不会阻塞库存写入。
type StreamHub struct {
	mu      sync.RWMutex
	clients map[*streamClient]struct{}
	backlog int
	closed  bool
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewStreamHub 创建 Hub，backlog 是每个连接的发送缓冲大小。
func NewStreamHub(backlog int) *StreamHub {
	if backlog <= 0 {
		backlog = 16
	}
	return &StreamHub{clients: make(map[*streamClient]struct{}), backlog: backlog}
}

// Publish 实现 application.ChangeNotifier
func (h *StreamHub) Publish(change domain.StockChange) {
	msg, err := json.Marshal(change)
	if err != nil {
		zlog.Error().Err(err).Msg("failed to encode stock change")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			zlog.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("Stream client too slow, dropping stock change")
		}
	}
}

// ServeHTTP 把请求升级为 WebSocket 并注册到 Hub
func (h *StreamHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &streamClient{conn: conn, send: make(chan []byte, h.backlog)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	logger.Ctx(r.Context()).Info().Str("remote", conn.RemoteAddr().String()).Msg("Stream client connected")

	go h.writePump(c)
	go h.readPump(c)
}

// ClientCount 返回当前连接数
func (h *StreamHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close 断开所有连接，之后的连接请求会被直接关闭。
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *StreamHub) unregister(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump 只负责处理 pong 和感知断开，客户端发来的消息被忽略。
func (h *StreamHub) readPump(c *streamClient) {
	defer h.unregister(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zlog.Warn().Err(err).Msg("Stream client read error")
			}
			return
		}
	}
}

func (h *StreamHub) writePump(c *streamClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}
