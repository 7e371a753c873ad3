package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message is the envelope written to display clients
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type delivery struct {
	sessionID string
	payload   []byte
}

// Client represents a single connected WebSocket client, bound to one cashier session
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	Send      chan []byte
	SessionID string
}

// Hub maintains the set of active clients and routes each message to the clients of its session
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewHub initializes a new WS Hub instance. An empty origin list accepts any origin.
func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		broadcast:  make(chan delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Run starts the core dispatch loop for WebSocket events until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("display connected", zap.String("session_id", client.SessionID))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Debug("display disconnected", zap.String("session_id", client.SessionID))
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.SessionID != msg.sessionID {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for the displays of one session. It never blocks the caller;
// when the queue is full the event is dropped.
func (h *Hub) Publish(sessionID, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to encode websocket event", zap.String("event", event), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- delivery{sessionID: sessionID, payload: payload}:
	default:
		h.logger.Warn("websocket queue full, event dropped", zap.String("event", event), zap.String("session_id", sessionID))
	}
}

// Connected reports how many displays are attached to a session
func (h *Hub) Connected(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for client := range h.clients {
		if client.SessionID == sessionID {
			n++
		}
	}
	return n
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump drains the connection so close frames are seen; displays send nothing
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		_ = c.Conn.Close()
	}()
	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket read failed", zap.Error(err))
			}
			break
		}
	}
}

// Authenticator resolves a token to the session it belongs to
type Authenticator func(token string) (sessionID string, err error)

// ServeWs handles websocket requests from the peer, authenticated via the token query param
func ServeWs(hub *Hub, c *gin.Context, authenticate Authenticator) {
	tokenString := c.Query("token")
	if tokenString == "" {
		hub.logger.Info("websocket connection rejected: missing token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	sessionID, err := authenticate(tokenString)
	if err != nil {
		hub.logger.Info("websocket connection rejected", zap.Error(err))
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := hub.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 256), SessionID: sessionID}
	select {
	case hub.register <- client:
	case <-hub.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
