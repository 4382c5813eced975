package main

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PlayerInput represents one input message from the client
type PlayerInput struct {
	Direction Vec3
	Boost     bool
	Seq       uint32
	Timestamp time.Time
}

// World is one player's session: the physics engine, the particle system,
// the current level's entities, and the loops that advance and broadcast
// them. The game is single-player, so every connected client gets its own
// world; the shared surface is the challenge mode.
type World struct {
	cfg       Config
	physics   *PhysicsEngine
	particles *ParticleSystem
	player    *Player
	client    *Client

	stars       map[uint64]*Star
	starsByBody map[*RigidBody]*Star
	gate        *Gate
	environment []*RigidBody

	Level          int
	StarsCollected int
	LevelStars     int // stars placed this level
	Score          int
	nextStarID     uint64

	InputQueue chan PlayerInput
	events     []ServerMessage

	stop     chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
}

// NewWorld creates a session world for one client and builds level 1
func NewWorld(cfg Config, client *Client, name string) *World {
	w := &World{
		cfg:         cfg,
		physics:     NewPhysicsEngine(),
		particles:   NewParticleSystem(cfg.MaxParticles),
		client:      client,
		stars:       make(map[uint64]*Star),
		starsByBody: make(map[*RigidBody]*Star),
		nextStarID:  1,
		Level:       1,
		InputQueue:  make(chan PlayerInput, InputQueueSize),
		stop:        make(chan struct{}),
	}
	w.physics.Forces().StrengthMultiplier = cfg.CurrentScale

	playerID := uuid.NewString()
	if client != nil {
		playerID = client.ID
	}
	w.player = NewPlayer(playerID, name, w)
	w.physics.AddBody(w.player.Body)

	w.particles.AddAmbientEmitters(Vec3{})
	w.buildLevel(w.Level)
	return w
}

// Start begins the game and broadcast loops
func (w *World) Start() {
	go w.GameLoop()
	go w.BroadcastLoop()
}

// Stop halts both loops. Bodies and particles stay registered and valid;
// they are just no longer advanced, so a host could resume by calling
// Start again on fresh loops.
func (w *World) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}

// GameLoop advances the simulation at the tick rate using wall-clock
// deltas, clamped so a stall cannot destabilize the integration.
func (w *World) GameLoop() {
	ticker := time.NewTicker(time.Duration(TickInterval) * time.Millisecond)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-w.stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > MaxDeltaTime {
				dt = MaxDeltaTime
			}
			w.Update(dt)
		}
	}
}

// BroadcastLoop sends state snapshots at the broadcast rate
func (w *World) BroadcastLoop() {
	ticker := time.NewTicker(time.Second / BroadcastRate)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.BroadcastState()
		}
	}
}

// Update advances the session by one tick: inputs, physics, particles,
// then the derived gameplay checks.
func (w *World) Update(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.processInputs()
	w.player.ApplyMovementInput(w.player.InputDirection, w.player.InputBoost, dt)

	w.physics.Update(dt)
	w.clampToWorldBounds(w.player.Body)

	w.particles.Update(dt)

	w.checkGateEntry()
}

// processInputs drains the input queue; the latest direction persists
// between messages like a held key.
func (w *World) processInputs() {
	for {
		select {
		case input := <-w.InputQueue:
			w.player.InputDirection = input.Direction
			w.player.InputBoost = input.Boost
			w.player.LastSeq = input.Seq
		default:
			return
		}
	}
}

// clampToWorldBounds keeps a body inside the play volume (hard border)
func (w *World) clampToWorldBounds(body *RigidBody) {
	if body.Position.X < -WorldExtentX {
		body.Position.X = -WorldExtentX
		body.Velocity.X = 0
	} else if body.Position.X > WorldExtentX {
		body.Position.X = WorldExtentX
		body.Velocity.X = 0
	}
	if body.Position.Y < -WorldExtentY {
		body.Position.Y = -WorldExtentY
		body.Velocity.Y = 0
	} else if body.Position.Y > WorldExtentY {
		body.Position.Y = WorldExtentY
		body.Velocity.Y = 0
	}
	if body.Position.Z < -WorldExtentZ {
		body.Position.Z = -WorldExtentZ
		body.Velocity.Z = 0
	} else if body.Position.Z > WorldExtentZ {
		body.Position.Z = WorldExtentZ
		body.Velocity.Z = 0
	}
}

// collectStar handles a star pickup. Called from the player's collision
// handler while the physics engine iterates, so the body removal goes
// through the engine's deferred queue.
func (w *World) collectStar(body *RigidBody) {
	star, ok := w.starsByBody[body]
	if !ok {
		return
	}

	body.Collected = true
	w.physics.RemoveBody(body)
	delete(w.stars, star.ID)
	delete(w.starsByBody, body)

	w.StarsCollected++
	w.Score += 10

	w.particles.CreateBurst(body.Position, BurstConfig{
		Count:             BurstStarCount,
		Life:              1.2,
		Size:              0.25,
		Velocity:          Vec3{Y: 1.5},
		VelocityVariation: Vec3{X: 3, Y: 3, Z: 3},
		Color:             RGB{R: 255, G: 220, B: 80},
	})

	if w.StarsCollected >= w.LevelStars {
		w.gate.Armed = true
	}

	w.queueEvent(ServerMessage{
		Type: "starCollected",
		Payload: StarCollectedPayload{
			StarID:    star.ID,
			Collected: w.StarsCollected,
			Total:     w.LevelStars,
			GateArmed: w.gate.Armed,
			Score:     w.Score,
		},
	})
	log.Printf("Player %s collected star %d (%d/%d)", w.player.ID, star.ID, w.StarsCollected, w.LevelStars)
}

// checkGateEntry is a derived check, not a trigger body: any
// non-collectible body would block motion, so the portal opening has no
// collider and passage is a distance test against the ring center.
func (w *World) checkGateEntry() {
	if w.gate == nil || !w.gate.Armed {
		return
	}
	if !w.gate.ContainsPlayer(w.player.Body.Position) {
		return
	}

	w.particles.CreateBurst(w.gate.Center, BurstConfig{
		Count:             BurstPortalCount,
		Life:              2.0,
		Size:              0.35,
		Velocity:          Vec3{},
		VelocityVariation: Vec3{X: 6, Y: 6, Z: 6},
		Color:             RGB{R: 140, G: 120, B: 255},
	})

	w.Score += 100
	completed := w.Level
	w.Level++

	w.teardownLevel()
	w.buildLevel(w.Level)

	w.queueEvent(ServerMessage{
		Type: "levelComplete",
		Payload: LevelCompletePayload{
			Level:     completed,
			NextLevel: w.Level,
			Score:     w.Score,
		},
	})
	log.Printf("Player %s completed level %d", w.player.ID, completed)
}

// buildLevel scatters stars and reef geometry and places the gate
func (w *World) buildLevel(level int) {
	starCount := BaseStarCount + (level-1)*StarsPerLevel
	rockCount := BaseRockCount + (level-1)*RocksPerLevel

	margin := Vec3{X: WorldExtentX - 10, Y: WorldExtentY - 10, Z: WorldExtentZ - 10}

	for i := 0; i < starCount; i++ {
		pos := w.scatterPosition(margin, 8.0)
		star := NewStar(w.nextStarID, pos)
		w.nextStarID++
		w.stars[star.ID] = star
		w.starsByBody[star.Body] = star
		w.physics.AddBody(star.Body)
	}

	for i := 0; i < rockCount; i++ {
		pos := w.scatterPosition(margin, 12.0)
		rock := NewRock(pos, RandomFloat(RockRadiusMin, RockRadiusMax))
		w.environment = append(w.environment, rock)
		w.physics.AddBody(rock)
	}
	for i := 0; i < BaseCoralCount; i++ {
		pos := w.scatterPosition(margin, 12.0)
		size := Vec3{X: RandomFloat(1, 4), Y: RandomFloat(2, 8), Z: RandomFloat(1, 4)}
		coral := NewCoral(pos, size)
		w.environment = append(w.environment, coral)
		w.physics.AddBody(coral)
	}

	gateCenter := Vec3{
		X: RandomFloat(-margin.X*0.5, margin.X*0.5),
		Y: RandomFloat(-margin.Y*0.5, margin.Y*0.5),
		Z: RandomFloat(-margin.Z*0.7, margin.Z*0.7),
	}
	w.gate = NewGate(gateCenter)
	for _, seg := range w.gate.Segments {
		w.physics.AddBody(seg)
	}

	w.LevelStars = starCount
	w.StarsCollected = 0
}

// scatterPosition picks a random spot inside the margins, retried a few
// times to keep a clear radius around the player spawn
func (w *World) scatterPosition(margin Vec3, clearance float64) Vec3 {
	for i := 0; i < 10; i++ {
		pos := RandomInBox(Vec3{}, margin)
		if Distance(pos, w.player.Body.Position) > clearance {
			return pos
		}
	}
	return RandomInBox(Vec3{}, margin)
}

// teardownLevel deregisters every body the level registered. Owners must
// deregister explicitly; nothing is garbage-collected implicitly.
func (w *World) teardownLevel() {
	for _, star := range w.stars {
		w.physics.RemoveBody(star.Body)
	}
	w.stars = make(map[uint64]*Star)
	w.starsByBody = make(map[*RigidBody]*Star)

	for _, body := range w.environment {
		w.physics.RemoveBody(body)
	}
	w.environment = w.environment[:0]

	if w.gate != nil {
		for _, seg := range w.gate.Segments {
			w.physics.RemoveBody(seg)
		}
		w.gate = nil
	}
}

func (w *World) queueEvent(msg ServerMessage) {
	w.events = append(w.events, msg)
}

// BroadcastState sends pending events, then a state snapshot culled to
// the player's view distance.
func (w *World) BroadcastState() {
	if w.client == nil {
		return
	}

	w.mu.Lock()
	events := w.events
	w.events = nil
	w.mu.Unlock()

	for _, msg := range events {
		w.client.SendMessage(msg)
	}

	w.mu.RLock()
	state := w.BuildState()
	w.mu.RUnlock()

	w.client.SendMessage(ServerMessage{
		Type:    "state",
		Payload: state,
	})
}

// BuildState assembles the snapshot for the client. Stars and particles
// go through the octree so only what is near the player gets sent.
func (w *World) BuildState() GameStatePayload {
	bounds := Box{
		Min: Vec3{X: -WorldExtentX, Y: -WorldExtentY, Z: -WorldExtentZ},
		Max: Vec3{X: WorldExtentX, Y: WorldExtentY, Z: WorldExtentZ},
	}
	tree := NewOctree(bounds, 8)
	for _, star := range w.stars {
		tree.Insert(&StarEntity{Star: star})
	}
	w.particles.ForEachActive(func(p *Particle) {
		tree.Insert(&ParticleEntity{Particle: p})
	})

	nearby := tree.QuerySphere(w.player.Body.Position, w.cfg.ViewDistance, nil)

	stars := make([]StarState, 0)
	particles := make([]ParticleState, 0)
	for _, entity := range nearby {
		switch e := entity.(type) {
		case *StarEntity:
			stars = append(stars, StarState{
				ID: e.ID,
				X:  e.Body.Position.X,
				Y:  e.Body.Position.Y,
				Z:  e.Body.Position.Z,
			})
		case *ParticleEntity:
			particles = append(particles, ParticleState{
				X:     e.Position.X,
				Y:     e.Position.Y,
				Z:     e.Position.Z,
				Size:  e.Size,
				Alpha: e.Alpha,
				Color: e.Color,
			})
		}
	}

	return GameStatePayload{
		You: PlayerState{
			X:    w.player.Body.Position.X,
			Y:    w.player.Body.Position.Y,
			Z:    w.player.Body.Position.Z,
			VelX: w.player.Body.Velocity.X,
			VelY: w.player.Body.Velocity.Y,
			VelZ: w.player.Body.Velocity.Z,
			Seq:  w.player.LastSeq,
		},
		Stars: stars,
		Gate: GateState{
			X:     w.gate.Center.X,
			Y:     w.gate.Center.Y,
			Z:     w.gate.Center.Z,
			Armed: w.gate.Armed,
		},
		Particles:      particles,
		Level:          w.Level,
		StarsCollected: w.StarsCollected,
		LevelStars:     w.LevelStars,
		Score:          w.Score,
	}
}
