package main

import (
	"testing"
)

// testClient builds a client without a live socket; only the pumps touch
// the connection, so handler-level tests can run against the queue alone.
func testClient() *Client {
	return &Client{
		ID:   "test-client",
		Send: make(chan []byte, WriteChannelSize),
		cfg:  DefaultConfig(),
	}
}

func TestJoinCreatesSessionOnce(t *testing.T) {
	c := testClient()

	c.HandleJoin(ClientMessage{Type: "join", Name: "diver"})
	world := c.session()
	if world == nil {
		t.Fatal("join did not create a session world")
	}
	defer world.Stop()

	c.HandleJoin(ClientMessage{Type: "join", Name: "other"})
	if c.session() != world {
		t.Error("second join replaced the session")
	}
}

func TestInputRacingDisconnect(t *testing.T) {
	c := testClient()
	c.HandleJoin(ClientMessage{Type: "join", Name: "diver"})
	if c.session() == nil {
		t.Fatal("join did not create a session world")
	}

	// The session can be released from another goroutine while the read
	// pump is still routing inputs; no input may observe a half-released
	// client state.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			c.HandleInput(ClientMessage{Type: "input", DirX: 1, Seq: uint32(i)})
		}
	}()

	c.Disconnect()
	<-done

	if c.session() != nil {
		t.Error("session not released on disconnect")
	}

	// Inputs after disconnect are a silent no-op
	c.HandleInput(ClientMessage{Type: "input", DirX: 1})
}

func TestInputWithoutSessionIsNoOp(t *testing.T) {
	c := testClient()
	c.HandleInput(ClientMessage{Type: "input", DirX: 1}) // must not panic
}
