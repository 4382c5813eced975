package main

import (
	"log"
	"net/http"
)

func main() {
	cfg := LoadConfig("config.yaml")

	// Challenge mode shares one hub across all clients
	challengeHub := NewChallengeHub()

	// Setup HTTP routes
	http.HandleFunc("/ws", HandleWebSocket(cfg))
	http.HandleFunc("/ws/challenge", HandleChallengeWebSocket(challengeHub))
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Deep Drift Server Running"))
	})

	log.Printf("Starting server on %s", cfg.Addr)
	log.Printf("WebSocket endpoints:")
	log.Printf("  - Game:      ws://localhost%s/ws", cfg.Addr)
	log.Printf("  - Challenge: ws://localhost%s/ws/challenge", cfg.Addr)

	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Fatal("Server error:", err)
	}
}
