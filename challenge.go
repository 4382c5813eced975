package main

import (
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ChallengeState represents the current state of a gate-rush session
type ChallengeState int

const (
	ChallengeStateLobby ChallengeState = iota
	ChallengeStateCountdown
	ChallengeStateActive
	ChallengeStateFinished
)

// ChallengeHub manages gate-rush sessions: a shared competitive mode where
// players race to collect a target number of stars and reach the gate.
type ChallengeHub struct {
	Challenges   map[string]*Challenge
	WaitingLobby *Challenge
	mu           sync.RWMutex
}

// Challenge is a single gate-rush session
type Challenge struct {
	ID              string
	State           ChallengeState
	Players         map[string]*ChallengePlayer
	StartTime       time.Time
	LobbyStart      time.Time // set when the first player joins
	CountdownStart  time.Time
	FinishedPlayers []ChallengeResult
	Hub             *ChallengeHub
	mu              sync.RWMutex
}

// ChallengePlayer is a participant in a gate-rush session
type ChallengePlayer struct {
	ID             string
	Name           string
	Client         *ChallengeClient
	StarsCollected int
	Progress       float64 // 0.0 to 1.0
	FinishTime     float64 // seconds
	Finished       bool
	Ready          bool
	LastUpdate     time.Time
}

// ChallengeResult stores the final result for a player
type ChallengeResult struct {
	PlayerID       string  `json:"playerId"`
	Name           string  `json:"name"`
	FinishTime     float64 `json:"finishTime"`
	StarsPerMinute float64 `json:"starsPerMinute"`
	Rank           int     `json:"rank"`
}

// ChallengeClientMessage represents incoming messages from challenge clients
type ChallengeClientMessage struct {
	Type           string `json:"type"`
	Name           string `json:"name,omitempty"`
	Ready          bool   `json:"ready,omitempty"`
	StarsCollected int    `json:"starsCollected,omitempty"`
}

// ChallengeServerMessage represents outgoing messages to challenge clients
type ChallengeServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ChallengeWelcomePayload is sent when a player joins a session
type ChallengeWelcomePayload struct {
	PlayerID    string `json:"playerId"`
	ChallengeID string `json:"challengeId"`
	Name        string `json:"name"`
	State       string `json:"state"`
	TargetStars int    `json:"targetStars"`
}

// ChallengeStatePayload contains the current session state
type ChallengeStatePayload struct {
	State         string                 `json:"state"`
	TimeRemaining float64                `json:"timeRemaining,omitempty"`
	Players       []ChallengePlayerState `json:"players"`
	You           ChallengePlayerState   `json:"you"`
	ReadyCount    int                    `json:"readyCount"`
	TotalPlayers  int                    `json:"totalPlayers"`
}

// ChallengePlayerState represents a player's progress in the session
type ChallengePlayerState struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
	Finished bool    `json:"finished"`
	Ready    bool    `json:"ready"`
}

// ChallengeResultsPayload contains final ranked results
type ChallengeResultsPayload struct {
	Results []ChallengeResult `json:"results"`
}

// NewChallengeHub creates the hub with an initial waiting lobby
func NewChallengeHub() *ChallengeHub {
	hub := &ChallengeHub{
		Challenges: make(map[string]*Challenge),
	}
	hub.WaitingLobby = hub.CreateChallenge()
	return hub
}

// CreateChallenge creates a new session in the lobby state
func (h *ChallengeHub) CreateChallenge() *Challenge {
	c := &Challenge{
		ID:      uuid.NewString(),
		State:   ChallengeStateLobby,
		Players: make(map[string]*ChallengePlayer),
		Hub:     h,
	}
	h.Challenges[c.ID] = c
	return c
}

// Join adds a player to the waiting lobby. The first player starts the
// lobby clock; when it runs out the lobby counts down with whoever is in it.
func (h *ChallengeHub) Join(client *ChallengeClient, playerName string) *Challenge {
	h.mu.Lock()
	c := h.WaitingLobby
	c.mu.Lock()

	player := &ChallengePlayer{
		ID:     client.ID,
		Name:   playerName,
		Client: client,
	}
	c.Players[client.ID] = player

	log.Printf("Player %s joined challenge %s (%d/%d players)", playerName, c.ID, len(c.Players), ChallengeMaxPlayers)

	full := len(c.Players) >= ChallengeMaxPlayers
	first := len(c.Players) == 1
	if first {
		c.LobbyStart = time.Now()
	}

	c.mu.Unlock()
	h.mu.Unlock()

	if first {
		go c.lobbyTimer(ChallengeLobbyWaitTime * time.Second)
	}

	if full {
		c.BeginCountdown()
	} else {
		c.BroadcastState()
	}
	return c
}

// lobbyTimer auto-starts the lobby after the wait expires. Nothing to do
// when the lobby already started (everyone readied up or it filled) or
// everyone left.
func (c *Challenge) lobbyTimer(wait time.Duration) {
	time.Sleep(wait)

	c.mu.Lock()
	start := c.State == ChallengeStateLobby && len(c.Players) > 0
	c.mu.Unlock()

	if start {
		c.BeginCountdown()
	}
}

// HandlePlayerReady marks a player ready; all ready starts the countdown
func (c *Challenge) HandlePlayerReady(playerID string) {
	c.mu.Lock()

	if c.State != ChallengeStateLobby {
		c.mu.Unlock()
		return
	}

	player, exists := c.Players[playerID]
	if !exists {
		c.mu.Unlock()
		return
	}
	player.Ready = true

	allReady := true
	for _, p := range c.Players {
		if !p.Ready {
			allReady = false
			break
		}
	}
	hasPlayers := len(c.Players) > 0
	c.mu.Unlock()

	if allReady && hasPlayers {
		c.BeginCountdown()
	} else {
		c.BroadcastState()
	}
}

// BeginCountdown transitions the lobby into countdown and spins off the
// timer that starts the run. A new waiting lobby replaces this one.
func (c *Challenge) BeginCountdown() {
	c.mu.Lock()
	if c.State != ChallengeStateLobby {
		c.mu.Unlock()
		return
	}
	c.State = ChallengeStateCountdown
	c.CountdownStart = time.Now()
	c.mu.Unlock()

	log.Printf("Challenge %s counting down with %d players", c.ID, len(c.Players))

	if c.Hub != nil {
		c.Hub.mu.Lock()
		c.Hub.WaitingLobby = c.Hub.CreateChallenge()
		c.Hub.mu.Unlock()
	}

	c.BroadcastState()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for i := 0; i < ChallengeCountdownTime; i++ {
			<-ticker.C
			c.BroadcastState()
		}
		c.Begin()
	}()
}

// Begin starts the run and its update loop
func (c *Challenge) Begin() {
	c.mu.Lock()
	c.State = ChallengeStateActive
	c.StartTime = time.Now()
	c.mu.Unlock()

	log.Printf("Challenge %s started", c.ID)
	c.BroadcastState()
	go c.Loop()
}

// Loop broadcasts progress and watches for the run to complete. A run
// abandoned by every player ends too; otherwise the ticker would spin on a
// challenge nobody can finish.
func (c *Challenge) Loop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.State != ChallengeStateActive {
			c.mu.Unlock()
			return
		}

		done := true
		for _, player := range c.Players {
			if !player.Finished {
				done = false
				break
			}
		}
		c.mu.Unlock()

		if done {
			c.End()
			return
		}

		c.BroadcastState()
	}
}

// HandleProgress processes a star-count report from a client. Progress is
// client-reported, mirroring how each player's own session world is the
// authority for their collection state.
func (c *Challenge) HandleProgress(playerID string, starsCollected int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State != ChallengeStateActive {
		return
	}

	player, ok := c.Players[playerID]
	if !ok {
		return
	}

	if starsCollected > player.StarsCollected {
		player.StarsCollected = starsCollected
	}
	player.LastUpdate = time.Now()
	player.Progress = Clamp(float64(player.StarsCollected)/ChallengeTargetStars, 0, 1)

	if player.Progress >= 1.0 && !player.Finished {
		player.Finished = true
		player.FinishTime = time.Since(c.StartTime).Seconds()
		log.Printf("Player %s finished challenge %s in %.2fs", playerID, c.ID, player.FinishTime)

		c.FinishedPlayers = append(c.FinishedPlayers, ChallengeResult{
			PlayerID:       playerID,
			Name:           player.Name,
			FinishTime:     player.FinishTime,
			StarsPerMinute: float64(player.StarsCollected) / player.FinishTime * 60.0,
		})
	}
}

// End finalizes the run and sends ranked results. A run with nobody left
// has no one to disconnect later, so it is dropped from the hub here.
func (c *Challenge) End() {
	c.mu.Lock()
	c.State = ChallengeStateFinished

	sort.Slice(c.FinishedPlayers, func(i, j int) bool {
		return c.FinishedPlayers[i].FinishTime < c.FinishedPlayers[j].FinishTime
	})
	for i := range c.FinishedPlayers {
		c.FinishedPlayers[i].Rank = i + 1
	}
	abandoned := len(c.Players) == 0
	c.mu.Unlock()

	log.Printf("Challenge %s finished", c.ID)
	c.BroadcastResults()

	if abandoned && c.Hub != nil {
		c.Hub.mu.Lock()
		delete(c.Hub.Challenges, c.ID)
		c.Hub.mu.Unlock()
	}
}

// BroadcastState sends the current session state to every player
func (c *Challenge) BroadcastState() {
	c.mu.RLock()

	state := c.State
	stateName := c.StateString()
	countdownStart := c.CountdownStart
	lobbyStart := c.LobbyStart

	players := make([]*ChallengePlayer, 0, len(c.Players))
	for _, p := range c.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})

	playersData := make([]ChallengePlayerState, 0, len(players))
	readyCount := 0
	for _, p := range players {
		if p.Ready {
			readyCount++
		}
		playersData = append(playersData, ChallengePlayerState{
			ID:       p.ID,
			Name:     p.Name,
			Progress: p.Progress,
			Finished: p.Finished,
			Ready:    p.Ready,
		})
	}
	c.mu.RUnlock()

	var timeRemaining float64
	switch state {
	case ChallengeStateCountdown:
		elapsed := time.Since(countdownStart).Seconds()
		timeRemaining = math.Max(0, float64(ChallengeCountdownTime)-elapsed)
	case ChallengeStateLobby:
		timeRemaining = float64(ChallengeLobbyWaitTime)
		if !lobbyStart.IsZero() {
			elapsed := time.Since(lobbyStart).Seconds()
			timeRemaining = math.Max(0, float64(ChallengeLobbyWaitTime)-elapsed)
		}
	}

	for i, player := range players {
		if player.Client == nil {
			continue
		}
		player.Client.SendMessage(ChallengeServerMessage{
			Type: "challengeState",
			Payload: ChallengeStatePayload{
				State:         stateName,
				TimeRemaining: timeRemaining,
				Players:       playersData,
				You:           playersData[i],
				ReadyCount:    readyCount,
				TotalPlayers:  len(playersData),
			},
		})
	}
}

// BroadcastResults sends final results to all players
func (c *Challenge) BroadcastResults() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	payload := ChallengeResultsPayload{Results: c.FinishedPlayers}
	for _, player := range c.Players {
		if player.Client != nil {
			player.Client.SendMessage(ChallengeServerMessage{
				Type:    "challengeResults",
				Payload: payload,
			})
		}
	}
}

// StateString returns the session state as a string
func (c *Challenge) StateString() string {
	switch c.State {
	case ChallengeStateLobby:
		return "lobby"
	case ChallengeStateCountdown:
		return "countdown"
	case ChallengeStateActive:
		return "active"
	case ChallengeStateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// DisconnectPlayer removes a player; empty finished sessions are cleaned up
func (c *Challenge) DisconnectPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	player, exists := c.Players[playerID]
	if !exists {
		return
	}
	log.Printf("Player %s left challenge %s (%s)", player.Name, c.ID, c.StateString())
	delete(c.Players, playerID)

	if len(c.Players) == 0 && c.State == ChallengeStateFinished {
		if c.Hub != nil {
			c.Hub.mu.Lock()
			delete(c.Hub.Challenges, c.ID)
			c.Hub.mu.Unlock()
		}
	}
}
