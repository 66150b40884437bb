// Package realtime distribui eventos de alunos para clientes WebSocket.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
	broadcastSize  = 256
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub mantém o conjunto de clientes em uma única goroutine (Run)
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	clients    map[*client]struct{}
	connected  atomic.Int64
	upgrader   websocket.Upgrader
	log        ports.Logger
}

// NewHub cria o hub. allowedOrigins vazio ou com "*" aceita qualquer origem.
func NewHub(allowedOrigins []string, log ports.Logger) *Hub {
	h := &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastSize),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
		log:        log,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
				return true
			}
			return slices.Contains(allowedOrigins, origin)
		},
	}

	return h
}

// Run processa registros e broadcasts até o contexto ser cancelado
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			close(c.send)
		}
		h.clients = nil
		h.connected.Store(0)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.connected.Store(int64(len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.connected.Store(int64(len(h.clients)))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// cliente lento
					delete(h.clients, c)
					close(c.send)
					h.log.Warn("websocket client dropped: send buffer full")
				}
			}
			h.connected.Store(int64(len(h.clients)))
		}
	}
}

// ClientCount retorna o número de clientes conectados
func (h *Hub) ClientCount() int {
	return int(h.connected.Load())
}

var _ ports.StudentEventPublisher = (*Hub)(nil)

// Publish nunca bloqueia: com o buffer cheio o evento é descartado
func (h *Hub) Publish(_ context.Context, event ports.StudentEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode student event", "error", err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("student event dropped: broadcast buffer full", "type", event.Type)
	}
}

// ServeWS faz o upgrade da conexão e registra o cliente no hub
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		return conn.Close()
	}

	go h.writePump(c)
	go h.readPump(c)

	return nil
}

// readPump só consome controles e detecta desconexão
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket closed unexpectedly", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
