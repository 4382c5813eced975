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

// ChallengeClient represents a connected challenge-mode WebSocket client
type ChallengeClient struct {
	ID        string
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *ChallengeHub
	Challenge *Challenge
	mu        sync.Mutex
}

// NewChallengeClient creates a new challenge client
func NewChallengeClient(conn *websocket.Conn, hub *ChallengeHub) *ChallengeClient {
	return &ChallengeClient{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, WriteChannelSize),
		Hub:  hub,
	}
}

// HandleChallengeWebSocket handles WebSocket connections for challenge mode
func HandleChallengeWebSocket(hub *ChallengeHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade challenge connection: %v", err)
			return
		}

		client := NewChallengeClient(conn, hub)

		go client.WritePump()
		go client.ReadPump()
	}
}

// ReadPump reads messages from the challenge WebSocket
func (c *ChallengeClient) ReadPump() {
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
				log.Printf("Challenge WebSocket error: %v", err)
			}
			break
		}

		var msg ChallengeClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling challenge message: %v", err)
			continue
		}

		c.HandleMessage(msg)
	}
}

// WritePump sends messages to the challenge WebSocket. Challenge traffic
// is low rate, so everything stays JSON text frames.
func (c *ChallengeClient) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
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

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
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

// HandleMessage processes incoming messages from challenge clients
func (c *ChallengeClient) HandleMessage(msg ChallengeClientMessage) {
	switch msg.Type {
	case "join":
		challenge := c.Hub.Join(c, msg.Name)
		c.Challenge = challenge

		c.SendMessage(ChallengeServerMessage{
			Type: "welcome",
			Payload: ChallengeWelcomePayload{
				PlayerID:    c.ID,
				ChallengeID: challenge.ID,
				Name:        msg.Name,
				State:       challenge.StateString(),
				TargetStars: ChallengeTargetStars,
			},
		})

	case "ready":
		if c.Challenge != nil {
			c.Challenge.HandlePlayerReady(c.ID)
		}

	case "progress":
		if c.Challenge != nil {
			c.Challenge.HandleProgress(c.ID, msg.StarsCollected)
		}

	case "ping":
		c.SendMessage(ChallengeServerMessage{Type: "pong"})
	}
}

// SendMessage queues a JSON message for the challenge client
func (c *ChallengeClient) SendMessage(msg ChallengeServerMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling challenge message: %v", err)
		return
	}

	select {
	case c.Send <- data:
	default:
		log.Printf("Challenge client %s send channel full, dropping message", c.ID)
	}
}

// Disconnect removes the client from its session
func (c *ChallengeClient) Disconnect() {
	if c.Challenge != nil {
		c.Challenge.DisconnectPlayer(c.ID)
	}
	close(c.Send)
	log.Printf("Challenge client disconnected: %s", c.ID)
}
