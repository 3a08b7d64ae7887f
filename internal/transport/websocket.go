package transport

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsQueue        = 8
	wsWriteTimeout = time.Second
)

var upgrader = websocket.Upgrader{
	// Any origin is accepted. The endpoint has no authentication and must
	// only be reachable from the network the host console runs on.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocket sends every frame as a text message to all connected clients and
// treats every received message as a command payload. Mount it on an
// http.ServeMux.
type WebSocket struct {
	log       *zap.Logger
	onCommand CommandHandler

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// NewWebSocket creates an endpoint with no clients.
func NewWebSocket(onCommand CommandHandler, log *zap.Logger) *WebSocket {
	return &WebSocket{
		log:       log,
		onCommand: onCommand,
		clients:   make(map[*wsClient]struct{}),
	}
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (w *WebSocket) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(rw, r, nil)
	if err != nil {
		w.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, wsQueue), done: make(chan struct{})}
	if !w.add(c) {
		c.close()
		return
	}
	log := w.log.With(zap.String("remote", r.RemoteAddr))
	log.Info("websocket client connected", zap.Int("clients", w.Clients()))

	go w.writeLoop(c, log)
	w.readLoop(c)

	w.remove(c)
	c.close()
	log.Info("websocket client disconnected", zap.Int("clients", w.Clients()))
}

func (w *WebSocket) add(c *wsClient) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.clients[c] = struct{}{}
	return true
}

func (w *WebSocket) remove(c *wsClient) {
	w.mu.Lock()
	delete(w.clients, c)
	w.mu.Unlock()
}

func (w *WebSocket) readLoop(c *wsClient) {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		w.onCommand(msg)
	}
}

func (w *WebSocket) writeLoop(c *wsClient, log *zap.Logger) {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
				log.Debug("websocket deadline failed", zap.Error(err))
				c.close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				c.close()
				return
			}
		}
	}
}

func (w *WebSocket) Name() string {
	return "websocket"
}

// Clients returns the number of connected clients.
func (w *WebSocket) Clients() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

// Deliver queues payload for every client. A client whose queue is full
// misses this frame.
func (w *WebSocket) Deliver(payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if len(w.clients) == 0 {
		return ErrNotConnected
	}

	var err error
	for c := range w.clients {
		select {
		case c.send <- payload:
		default:
			err = ErrBusy
		}
	}
	return err
}

// Close disconnects all clients and refuses new ones.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	for c := range w.clients {
		c.close()
	}
	return nil
}
