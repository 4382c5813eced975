package main

import "math"

// Player is the swimmer a connected client controls. It owns a dynamic
// sphere body and is that body's collision handler: pickups react here,
// motion blocking already happened inside the physics engine.
type Player struct {
	ID      string
	Name    string
	Body    *RigidBody
	LastSeq uint32
	world   *World

	// Input state persists between input messages, like held keys
	InputDirection Vec3
	InputBoost     bool
}

// NewPlayer creates a player with an unregistered body at the spawn point
func NewPlayer(id, name string, world *World) *Player {
	p := &Player{
		ID:    id,
		Name:  name,
		world: world,
	}
	body := NewSphereBody(Vec3{Y: -WorldExtentY * 0.3}, PlayerRadius, false)
	body.Category = CategoryPlayer
	body.Handler = p
	p.Body = body
	return p
}

// OnCollision receives the complete hit list for the frame. Uncollected
// stars are handed to the world; blocking hits need no reaction here since
// the engine already resolved them.
func (p *Player) OnCollision(hits []*RigidBody) {
	for _, hit := range hits {
		if hit.Category == CategoryCollectible && !hit.Collected {
			p.world.collectStar(hit)
		}
	}
}

// ApplyMovementInput translates a normalized movement intent into a
// velocity change: scaled acceleration plus a hard speed clamp. This is
// the only external writer of a dynamic body's velocity besides the force
// model and collision resolution.
func (p *Player) ApplyMovementInput(direction Vec3, boost bool, dt float64) {
	if direction.Length() == 0 {
		return
	}
	accel := SwimAccel
	maxSpeed := MaxSwimSpeed
	if boost {
		accel *= BoostMultiplier
		maxSpeed *= BoostMultiplier
	}
	p.Body.Velocity = p.Body.Velocity.Add(direction.Normalize().Mul(accel * dt))
	p.Body.Velocity = p.Body.Velocity.ClampLength(maxSpeed)
}

// Star is a collectible pickup scattered through the level
type Star struct {
	ID   uint64
	Body *RigidBody
}

// NewStar creates a star with an unregistered static body
func NewStar(id uint64, position Vec3) *Star {
	body := NewSphereBody(position, StarRadius, true)
	body.Category = CategoryCollectible
	return &Star{ID: id, Body: body}
}

// Gate is the level-exit portal: a ring of static box segments the player
// swims through. The frame blocks like any environment geometry; passage
// is detected by the world's distance check against the open center, and
// only once every star in the level is collected (Armed).
type Gate struct {
	Center   Vec3
	Radius   float64
	Armed    bool
	Segments []*RigidBody
}

// NewGate builds a vertical ring of segment bodies around center, facing
// the Z axis. Segments are unregistered; the world registers them.
func NewGate(center Vec3) *Gate {
	g := &Gate{
		Center: center,
		Radius: GateRadius,
	}
	segSize := Vec3{X: 1.5, Y: 1.5, Z: 0.8}
	for i := 0; i < GateSegments; i++ {
		angle := float64(i) / GateSegments * 2 * math.Pi
		pos := Vec3{
			X: center.X + math.Cos(angle)*g.Radius,
			Y: center.Y + math.Sin(angle)*g.Radius,
			Z: center.Z,
		}
		body := NewBoxBody(pos, segSize, true)
		body.Category = CategoryGateSegment
		g.Segments = append(g.Segments, body)
	}
	return g
}

// ContainsPlayer reports whether a position sits inside the gate opening:
// close to the ring plane and well inside the frame.
func (g *Gate) ContainsPlayer(position Vec3) bool {
	if math.Abs(position.Z-g.Center.Z) > 2.0 {
		return false
	}
	dx := position.X - g.Center.X
	dy := position.Y - g.Center.Y
	return math.Sqrt(dx*dx+dy*dy) <= g.Radius*0.7
}

// NewRock creates an unregistered static environment sphere
func NewRock(position Vec3, radius float64) *RigidBody {
	body := NewSphereBody(position, radius, true)
	body.Category = CategoryEnvironment
	return body
}

// NewCoral creates an unregistered static environment box
func NewCoral(position, size Vec3) *RigidBody {
	body := NewBoxBody(position, size, true)
	body.Category = CategoryEnvironment
	return body
}
