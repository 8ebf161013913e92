package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"milkchess/internal/analysis"
	"milkchess/internal/middleware"
	"milkchess/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the HTTP API; tokens guard the stream
	},
}

// Request types accepted on the analysis stream.
const (
	WSAnalyze = "analyze"
	WSMoves   = "moves"
	WSState   = "state"
)

// WSRequest is a JSON frame sent by a client. A frame that is not JSON is
// taken as a bare position string to analyze.
type WSRequest struct {
	ID       string   `json:"id,omitempty"`
	Type     string   `json:"type"`
	Position string   `json:"position,omitempty"`
	FEN      string   `json:"fen,omitempty"`
	History  []string `json:"history,omitempty"`
}

type WSMessage struct {
	Type      string           `json:"type"`
	ID        string           `json:"id,omitempty"`
	Analysis  *models.Analysis `json:"analysis,omitempty"`
	Positions []string         `json:"positions,omitempty"`
	State     string           `json:"state,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type AnalysisStreamHandler struct {
	svc *analysis.Service
	hub *Hub
}

func NewAnalysisStreamHandler(svc *analysis.Service) *AnalysisStreamHandler {
	hub := NewHub()
	go hub.Run()
	return &AnalysisStreamHandler{svc: svc, hub: hub}
}

// Hub tracks open analysis streams so they can be counted and closed on
// shutdown.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	once       sync.Once
}

type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	client string
	send   chan []byte
	done   chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			log.Printf("[WS] Client registered: conn=%s client=%q", client.id, client.client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WS] Client unregistered: conn=%s", client.id)

		case <-h.quit:
			return
		}
	}
}

// Count returns the number of open streams.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown sends a close frame to every stream and stops the hub.
func (h *Hub) Shutdown() {
	h.once.Do(func() {
		h.mu.RLock()
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		for _, c := range h.clients {
			c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		}
		n := len(h.clients)
		h.mu.RUnlock()
		close(h.quit)
		log.Printf("[WS] Hub stopped, %d streams closed", n)
	})
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

// remove unregisters c. Once the hub has stopped, c's send channel is closed
// here instead, since Run no longer will.
func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
		close(c.send)
	}
}

func (c *Client) readPump(svc *analysis.Service) {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Read error on %s: %v", c.id, err)
			}
			return
		}

		reply := handleFrame(ctx, svc, message)
		data, err := json.Marshal(reply)
		if err != nil {
			log.Printf("[WS] Failed to marshal reply: %v", err)
			continue
		}
		select {
		case c.send <- data:
		case <-c.done:
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame answers one request frame.
func handleFrame(ctx context.Context, svc *analysis.Service, frame []byte) WSMessage {
	var req WSRequest
	text := strings.TrimSpace(string(frame))
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal(frame, &req); err != nil {
			return WSMessage{Type: "error", Error: "invalid request"}
		}
	} else {
		req = WSRequest{Type: WSAnalyze, Position: text}
	}
	if req.Type == "" {
		req.Type = WSAnalyze
	}

	position, err := analysis.ResolvePosition(req.Position, req.FEN)
	if err != nil {
		return WSMessage{Type: "error", ID: req.ID, Error: err.Error()}
	}

	switch req.Type {
	case WSAnalyze:
		a, err := svc.AnalyzeLine(ctx, position, req.History)
		if err != nil {
			return WSMessage{Type: "error", ID: req.ID, Error: err.Error()}
		}
		return WSMessage{Type: "analysis", ID: req.ID, Analysis: a}
	case WSMoves:
		positions, err := svc.LegalMoves(ctx, position)
		if err != nil {
			return WSMessage{Type: "error", ID: req.ID, Error: err.Error()}
		}
		return WSMessage{Type: "moves", ID: req.ID, Positions: positions}
	case WSState:
		state, err := svc.GameState(ctx, position)
		if err != nil {
			return WSMessage{Type: "error", ID: req.ID, Error: err.Error()}
		}
		return WSMessage{Type: "state", ID: req.ID, State: state}
	}
	return WSMessage{Type: "error", ID: req.ID, Error: "unknown request type " + req.Type}
}

// HandleWebSocket upgrades the request to an analysis stream.
func (h *AnalysisStreamHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	clientName, _ := middleware.GetClientFromContext(r.Context())
	client := &Client{
		id:     uuid.NewString(),
		hub:    h.hub,
		conn:   conn,
		client: clientName,
		send:   make(chan []byte, 16),
		done:   make(chan struct{}),
	}

	if !h.hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h.svc)
}

// GetHub returns the hub for use by the server
func (h *AnalysisStreamHandler) GetHub() *Hub {
	return h.hub
}
