package main

import (
	"testing"
	"time"
)

func activeChallenge(playerIDs ...string) *Challenge {
	c := &Challenge{
		ID:        "test-challenge",
		State:     ChallengeStateActive,
		Players:   make(map[string]*ChallengePlayer),
		StartTime: time.Now().Add(-30 * time.Second),
	}
	for _, id := range playerIDs {
		c.Players[id] = &ChallengePlayer{ID: id, Name: "player-" + id}
	}
	return c
}

func TestChallengeProgressIsMonotonic(t *testing.T) {
	c := activeChallenge("p1")

	c.HandleProgress("p1", 10)
	if got := c.Players["p1"].StarsCollected; got != 10 {
		t.Fatalf("stars = %d, want 10", got)
	}

	// Stale or replayed reports never roll progress back
	c.HandleProgress("p1", 4)
	if got := c.Players["p1"].StarsCollected; got != 10 {
		t.Errorf("stars = %d after stale report, want 10", got)
	}

	want := 10.0 / ChallengeTargetStars
	if got := c.Players["p1"].Progress; !almostEqual(got, want) {
		t.Errorf("progress = %v, want %v", got, want)
	}
}

func TestChallengeProgressIgnoresUnknownPlayer(t *testing.T) {
	c := activeChallenge("p1")
	c.HandleProgress("ghost", 5)
	if len(c.FinishedPlayers) != 0 {
		t.Error("unknown player should not produce a result")
	}
}

func TestChallengeProgressIgnoredOutsideActiveState(t *testing.T) {
	c := activeChallenge("p1")
	c.State = ChallengeStateLobby

	c.HandleProgress("p1", 10)
	if got := c.Players["p1"].StarsCollected; got != 0 {
		t.Errorf("stars = %d in lobby state, want 0", got)
	}
}

func TestChallengeFinishAtTarget(t *testing.T) {
	c := activeChallenge("p1")

	c.HandleProgress("p1", ChallengeTargetStars-1)
	if c.Players["p1"].Finished {
		t.Fatal("finished one star early")
	}

	c.HandleProgress("p1", ChallengeTargetStars)
	p := c.Players["p1"]
	if !p.Finished {
		t.Fatal("not finished at target star count")
	}
	if p.Progress != 1.0 {
		t.Errorf("progress = %v, want 1.0", p.Progress)
	}
	if p.FinishTime <= 0 {
		t.Errorf("finish time = %v, want > 0", p.FinishTime)
	}
	if len(c.FinishedPlayers) != 1 {
		t.Fatalf("results = %d, want 1", len(c.FinishedPlayers))
	}
	if c.FinishedPlayers[0].StarsPerMinute <= 0 {
		t.Errorf("stars per minute = %v", c.FinishedPlayers[0].StarsPerMinute)
	}

	// Further reports after finishing do not duplicate the result
	c.HandleProgress("p1", ChallengeTargetStars+3)
	if len(c.FinishedPlayers) != 1 {
		t.Errorf("results = %d after extra report, want 1", len(c.FinishedPlayers))
	}
}

func TestChallengeEndRanksByFinishTime(t *testing.T) {
	c := activeChallenge()
	c.FinishedPlayers = []ChallengeResult{
		{PlayerID: "slow", FinishTime: 90},
		{PlayerID: "fast", FinishTime: 45},
		{PlayerID: "mid", FinishTime: 60},
	}

	c.End()

	if c.State != ChallengeStateFinished {
		t.Fatalf("state = %v, want finished", c.State)
	}
	wantOrder := []string{"fast", "mid", "slow"}
	for i, want := range wantOrder {
		got := c.FinishedPlayers[i]
		if got.PlayerID != want {
			t.Errorf("rank %d = %s, want %s", i+1, got.PlayerID, want)
		}
		if got.Rank != i+1 {
			t.Errorf("result %s rank = %d, want %d", got.PlayerID, got.Rank, i+1)
		}
	}
}

func TestChallengeReadyRequiresLobby(t *testing.T) {
	c := activeChallenge("p1")
	c.HandlePlayerReady("p1")
	if c.Players["p1"].Ready {
		t.Error("ready should be ignored outside the lobby")
	}
}

func TestChallengeReadyWaitsForAll(t *testing.T) {
	c := activeChallenge("p1", "p2")
	c.State = ChallengeStateLobby

	c.HandlePlayerReady("p1")
	if c.State != ChallengeStateLobby {
		t.Errorf("state = %v with one of two ready, want lobby", c.State)
	}
	if !c.Players["p1"].Ready {
		t.Error("p1 not marked ready")
	}
}

func TestChallengeDisconnectCleansUpFinished(t *testing.T) {
	hub := NewChallengeHub()
	c := hub.CreateChallenge()
	c.Players["p1"] = &ChallengePlayer{ID: "p1", Name: "solo"}
	c.State = ChallengeStateFinished

	c.DisconnectPlayer("p1")

	if _, exists := hub.Challenges[c.ID]; exists {
		t.Error("empty finished challenge should be removed from the hub")
	}
	if _, exists := hub.Challenges[hub.WaitingLobby.ID]; !exists {
		t.Error("waiting lobby should survive cleanup")
	}
}

func TestChallengeEndsWhenAllPlayersLeave(t *testing.T) {
	hub := NewChallengeHub()
	c := hub.CreateChallenge()
	c.Players["p1"] = &ChallengePlayer{ID: "p1", Name: "solo"}
	c.State = ChallengeStateActive
	c.StartTime = time.Now()
	go c.Loop()

	c.DisconnectPlayer("p1")

	// The loop must notice the abandoned run, finish it, and drop it from
	// the hub rather than ticking forever.
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		_, exists := hub.Challenges[c.ID]
		hub.mu.RUnlock()
		if !exists {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("abandoned challenge never removed from the hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	c.mu.RLock()
	state := c.State
	c.mu.RUnlock()
	if state != ChallengeStateFinished {
		t.Errorf("state = %v, want finished", state)
	}
}

func TestLobbyClockStartsWithFirstPlayer(t *testing.T) {
	hub := NewChallengeHub()
	lobby := hub.WaitingLobby

	hub.Join(&ChallengeClient{ID: "c1"}, "first")
	lobby.mu.RLock()
	started := lobby.LobbyStart
	lobby.mu.RUnlock()
	if started.IsZero() {
		t.Fatal("first join should start the lobby clock")
	}

	hub.Join(&ChallengeClient{ID: "c2"}, "second")
	lobby.mu.RLock()
	after := lobby.LobbyStart
	lobby.mu.RUnlock()
	if !after.Equal(started) {
		t.Error("later joins must not reset the lobby clock")
	}
}

func TestLobbyAutoStartsAfterWait(t *testing.T) {
	hub := NewChallengeHub()
	c := hub.WaitingLobby
	hub.Join(&ChallengeClient{ID: "c1"}, "diver")

	c.lobbyTimer(10 * time.Millisecond)

	c.mu.RLock()
	state := c.State
	c.mu.RUnlock()
	if state != ChallengeStateCountdown {
		t.Errorf("state = %v after lobby wait, want countdown", state)
	}
	if hub.WaitingLobby == c {
		t.Error("a fresh waiting lobby should replace the started one")
	}
}

func TestEmptyLobbyNeverAutoStarts(t *testing.T) {
	hub := NewChallengeHub()
	c := hub.CreateChallenge()

	c.lobbyTimer(time.Millisecond)

	if c.State != ChallengeStateLobby {
		t.Errorf("state = %v, empty lobby must stay in lobby", c.State)
	}
}

func TestChallengeHubJoinFillsWaitingLobby(t *testing.T) {
	hub := NewChallengeHub()
	lobby := hub.WaitingLobby

	client := &ChallengeClient{ID: "c1"}
	got := hub.Join(client, "diver")

	if got != lobby {
		t.Fatal("join should land in the waiting lobby")
	}
	if _, exists := lobby.Players["c1"]; !exists {
		t.Error("player missing from lobby")
	}
}
