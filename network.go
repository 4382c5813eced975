package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:    2048,
	WriteBufferSize:   8192,
	EnableCompression: true,
	CheckOrigin: func(r *http.Request) bool {
		return true // the game client is served from anywhere during development
	},
}

// Client represents a connected WebSocket client and its session world
type Client struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan []byte
	World *World
	cfg   Config
	mu    sync.Mutex
}

// NewClient creates a new client; the world is created on join
func NewClient(conn *websocket.Conn, cfg Config) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, WriteChannelSize),
		cfg:  cfg,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.Disconnect()
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.HandleMessage(msg)
	}
}

// WritePump sends messages to the WebSocket connection, batching queued
// messages into one frame and pinging on an interval.
func (c *Client) WritePump() {
	ticker := time.NewTicker(time.Duration(PingInterval) * time.Millisecond)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			batched := message
		batchLoop:
			for i := 0; i < 10; i++ {
				select {
				case nextMsg := <-c.Send:
					batched = append(batched, nextMsg...)
				default:
					break batchLoop
				}
			}

			if err := c.Conn.WriteMessage(websocket.BinaryMessage, batched); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleMessage processes incoming client messages
func (c *Client) HandleMessage(msg ClientMessage) {
	switch msg.Type {
	case "join":
		c.HandleJoin(msg)
	case "input":
		c.HandleInput(msg)
	case "ping":
		c.SendMessage(ServerMessage{Type: "pong"})
	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}

// session returns the client's world. Disconnect can release the world
// from another goroutine (the broadcast side reaches it through
// SendMessage's full-channel path), so readers take a snapshot under the
// mutex instead of touching c.World twice.
func (c *Client) session() *World {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.World
}

// HandleJoin starts a session world for the client
func (c *Client) HandleJoin(msg ClientMessage) {
	name := msg.Name
	if len(name) > MaxPlayerNameLen {
		name = name[:MaxPlayerNameLen]
	}
	if name == "" {
		name = "Diver"
	}

	c.mu.Lock()
	if c.World != nil {
		c.mu.Unlock()
		return // already joined
	}
	world := NewWorld(c.cfg, c, name)
	c.World = world
	c.mu.Unlock()

	level := world.Level
	world.Start()

	c.SendMessage(ServerMessage{
		Type: "welcome",
		Payload: WelcomePayload{
			ID:      c.ID,
			ExtentX: WorldExtentX,
			ExtentY: WorldExtentY,
			ExtentZ: WorldExtentZ,
			Level:   level,
		},
	})

	log.Printf("Player %s (%s) joined", name, c.ID)
}

// HandleInput queues a movement intent for the session's game loop
func (c *Client) HandleInput(msg ClientMessage) {
	world := c.session()
	if world == nil {
		return
	}

	direction := Vec3{X: msg.DirX, Y: msg.DirY, Z: msg.DirZ}
	if direction.Length() > 0 {
		direction = direction.Normalize()
	}

	input := PlayerInput{
		Direction: direction,
		Boost:     msg.Boost,
		Seq:       msg.Seq,
		Timestamp: time.Now(),
	}

	select {
	case world.InputQueue <- input:
	default:
		// Queue full, drop input rather than block the read pump
		log.Printf("Input queue full, dropping input from %s", c.ID)
	}
}

// SendMessage encodes and queues a message for the client. Binary where a
// layout exists, JSON otherwise.
func (c *Client) SendMessage(msg ServerMessage) {
	data := EncodeBinaryMessage(msg)
	if data == nil {
		jsonData, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Error marshaling message: %v", err)
			return
		}
		data = jsonData
	}

	select {
	case c.Send <- data:
	default:
		// Channel full, client too slow
		log.Printf("Client %s send channel full, closing connection", c.ID)
		c.Disconnect()
	}
}

// Disconnect stops the session world and releases the client
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.World != nil {
		c.World.Stop()
		c.World = nil
		log.Printf("Player %s disconnected", c.ID)
	}
}

// HandleWebSocket upgrades an HTTP connection to a game WebSocket
func HandleWebSocket(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		client := NewClient(conn, cfg)

		go client.WritePump()
		go client.ReadPump()
	}
}
