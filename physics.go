package main

// PhysicsEngine owns the rigid bodies, drives per-frame integration, and
// resolves detected collisions. All structural changes (add/remove) go
// through it; changes requested from inside a collision handler are
// deferred until the update pass finishes so the body list is never
// mutated under iteration.
type PhysicsEngine struct {
	bodies     []*RigidBody
	collisions *CollisionSystem
	forces     UnderwaterForces

	// Underwater selects the force path. Always true in the game today;
	// the gravity branch stays so the engine works above water too.
	Underwater bool

	updating      bool
	pendingAdd    []*RigidBody
	pendingRemove []*RigidBody
}

// NewPhysicsEngine creates an engine with the default underwater forces
func NewPhysicsEngine() *PhysicsEngine {
	return &PhysicsEngine{
		bodies:     make([]*RigidBody, 0),
		collisions: NewCollisionSystem(),
		forces:     DefaultUnderwaterForces(),
		Underwater: true,
	}
}

// Forces exposes the force model for tuning (e.g. current multiplier)
func (e *PhysicsEngine) Forces() *UnderwaterForces {
	return &e.forces
}

// Collisions exposes the collision system for direct queries
func (e *PhysicsEngine) Collisions() *CollisionSystem {
	return e.collisions
}

// AddBody registers a body for simulation and collision. Safe to call from
// inside a collision handler; the body then joins after the current update.
func (e *PhysicsEngine) AddBody(body *RigidBody) {
	if e.updating {
		e.pendingAdd = append(e.pendingAdd, body)
		return
	}
	e.bodies = append(e.bodies, body)
	e.collisions.AddCollider(body, body.Static)
}

// RemoveBody deregisters a body. Unknown bodies are a no-op. Safe to call
// from inside a collision handler; removal then happens after the update.
func (e *PhysicsEngine) RemoveBody(body *RigidBody) {
	if e.updating {
		e.pendingRemove = append(e.pendingRemove, body)
		return
	}
	e.bodies = removeBody(e.bodies, body)
	e.collisions.RemoveCollider(body)
}

// BodyCount returns the number of registered bodies
func (e *PhysicsEngine) BodyCount() int {
	return len(e.bodies)
}

// Update advances every dynamic body by dt: forces, explicit Euler
// integration, then collision detection and resolution.
func (e *PhysicsEngine) Update(dt float64) {
	e.updating = true

	for _, body := range e.bodies {
		if body.Static {
			continue
		}

		body.previousPosition = body.Position

		if e.Underwater {
			e.forces.Apply(body, dt)
		} else {
			body.Velocity.Y += GravityAccel * dt
		}

		body.Position = body.Position.Add(body.Velocity.Mul(dt))

		hits := e.collisions.CheckCollisions(body)
		if len(hits) == 0 {
			continue
		}
		e.resolveCollisions(body, hits)
	}

	e.updating = false
	e.flushPending()
}

// resolveCollisions applies the collision response. Uncollected
// collectibles never impede motion; anything else triggers a full rollback
// to the pre-step position plus a restitution scale on velocity. This is a
// deliberately crude response (visible bounce/stick at boundaries instead
// of sliding) that the gameplay feel depends on; do not replace it with a
// penetration-depth or sliding correction.
func (e *PhysicsEngine) resolveCollisions(body *RigidBody, hits []*RigidBody) {
	blocking := false
	for _, hit := range hits {
		if hit.Category != CategoryCollectible || hit.Collected {
			blocking = true
			break
		}
	}

	if blocking {
		body.Position = body.previousPosition
		body.Velocity = body.Velocity.Mul(RestitutionFactor)
	}

	// The handler sees the complete list, non-blocking hits included, so
	// gameplay can react to pickups that never altered motion.
	if body.Handler != nil {
		body.Handler.OnCollision(hits)
	}
}

func (e *PhysicsEngine) flushPending() {
	for _, body := range e.pendingAdd {
		e.bodies = append(e.bodies, body)
		e.collisions.AddCollider(body, body.Static)
	}
	e.pendingAdd = e.pendingAdd[:0]

	for _, body := range e.pendingRemove {
		e.bodies = removeBody(e.bodies, body)
		e.collisions.RemoveCollider(body)
	}
	e.pendingRemove = e.pendingRemove[:0]
}
