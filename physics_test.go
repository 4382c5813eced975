package main

import "testing"

type recordingHandler struct {
	calls [][]*RigidBody
}

func (h *recordingHandler) OnCollision(hits []*RigidBody) {
	recorded := make([]*RigidBody, len(hits))
	copy(recorded, hits)
	h.calls = append(h.calls, recorded)
}

func TestUpdateAppliesBuoyancyAndCurrent(t *testing.T) {
	e := NewPhysicsEngine()
	body := NewSphereBody(Vec3{}, 1, false)
	e.AddBody(body)

	e.Update(0.016)

	if body.Velocity.Y <= 0 {
		t.Errorf("velocity.Y = %v, want > 0 after buoyancy", body.Velocity.Y)
	}
	if body.Velocity.X == 0 && body.Velocity.Z == 0 {
		t.Error("ambient current should give a nonzero horizontal velocity")
	}
}

func TestStaticBodyNeverIntegrated(t *testing.T) {
	e := NewPhysicsEngine()
	body := NewSphereBody(Vec3{X: 5, Y: -2, Z: 1}, 1, true)
	body.Velocity = Vec3{X: 3, Y: 4} // never auto-zeroed, never applied
	e.AddBody(body)

	for i := 0; i < 10; i++ {
		e.Update(0.016)
	}

	if body.Position != (Vec3{X: 5, Y: -2, Z: 1}) {
		t.Errorf("static body moved to %v", body.Position)
	}
	if body.Velocity != (Vec3{X: 3, Y: 4}) {
		t.Errorf("static body velocity changed to %v", body.Velocity)
	}
}

func TestBlockingCollisionFullRollback(t *testing.T) {
	e := NewPhysicsEngine()

	wall := NewSphereBody(Vec3{X: 3}, 2, true)
	wall.Category = CategoryEnvironment
	e.AddBody(wall)

	body := NewSphereBody(Vec3{}, 1, false)
	body.Velocity = Vec3{X: 50}
	e.AddBody(body)

	startPos := body.Position
	preSpeed := body.Velocity.Length()

	e.Update(0.1)

	// Full rollback, not a partial correction: position is exactly the
	// pre-integration snapshot, which here is the starting position.
	if body.Position != startPos {
		t.Errorf("position = %v, want exact rollback to %v", body.Position, startPos)
	}
	if body.Velocity.Length() >= preSpeed {
		t.Errorf("speed %v not reduced from %v by restitution", body.Velocity.Length(), preSpeed)
	}
}

func TestCollectibleDoesNotBlock(t *testing.T) {
	e := NewPhysicsEngine()

	star := NewSphereBody(Vec3{X: 1}, 1, true)
	star.Category = CategoryCollectible
	e.AddBody(star)

	handler := &recordingHandler{}
	body := NewSphereBody(Vec3{}, 1, false)
	body.Velocity = Vec3{X: 10}
	body.Handler = handler
	e.AddBody(body)

	startPos := body.Position
	e.Update(0.05)

	if body.Position == startPos {
		t.Error("uncollected collectible must not impede motion")
	}
	if len(handler.calls) != 1 {
		t.Fatalf("handler called %d times, want 1", len(handler.calls))
	}
	found := false
	for _, hit := range handler.calls[0] {
		if hit == star {
			found = true
		}
	}
	if !found {
		t.Error("handler did not receive the collectible hit")
	}
}

func TestCollectedCollectibleBlocks(t *testing.T) {
	e := NewPhysicsEngine()

	star := NewSphereBody(Vec3{X: 1}, 1, true)
	star.Category = CategoryCollectible
	star.Collected = true
	e.AddBody(star)

	body := NewSphereBody(Vec3{}, 1, false)
	body.Velocity = Vec3{X: 10}
	e.AddBody(body)

	startPos := body.Position
	e.Update(0.05)

	if body.Position != startPos {
		t.Error("a collected collectible blocks like any other body")
	}
}

func TestHandlerSeesCompleteHitList(t *testing.T) {
	e := NewPhysicsEngine()

	rock := NewSphereBody(Vec3{X: 1}, 1, true)
	rock.Category = CategoryEnvironment
	e.AddBody(rock)

	star := NewSphereBody(Vec3{Y: 1}, 1, true)
	star.Category = CategoryCollectible
	e.AddBody(star)

	handler := &recordingHandler{}
	body := NewSphereBody(Vec3{}, 1, false)
	body.Velocity = Vec3{X: 1}
	body.Handler = handler
	e.AddBody(body)

	e.Update(0.016)

	if len(handler.calls) != 1 {
		t.Fatalf("handler called %d times, want 1", len(handler.calls))
	}
	if len(handler.calls[0]) != 2 {
		t.Errorf("handler got %d hits, want both the blocking and non-blocking hit", len(handler.calls[0]))
	}
}

func TestGravityBranchAboveWater(t *testing.T) {
	e := NewPhysicsEngine()
	e.Underwater = false

	body := NewSphereBody(Vec3{}, 1, false)
	e.AddBody(body)

	e.Update(0.1)

	if body.Velocity.Y >= 0 {
		t.Errorf("velocity.Y = %v, want negative under gravity", body.Velocity.Y)
	}
	if body.Velocity.X != 0 || body.Velocity.Z != 0 {
		t.Error("gravity branch must not apply a current")
	}
}

// removeOnHit deregisters the hit body from inside the collision handler,
// the same-frame removal pattern star collection uses.
type removeOnHit struct {
	engine *PhysicsEngine
}

func (h *removeOnHit) OnCollision(hits []*RigidBody) {
	for _, hit := range hits {
		h.engine.RemoveBody(hit)
	}
}

func TestRemoveDuringUpdateIsDeferred(t *testing.T) {
	e := NewPhysicsEngine()

	star := NewSphereBody(Vec3{X: 1}, 1, true)
	star.Category = CategoryCollectible
	e.AddBody(star)

	body := NewSphereBody(Vec3{}, 1, false)
	body.Velocity = Vec3{X: 1}
	body.Handler = &removeOnHit{engine: e}
	e.AddBody(body)

	before := e.BodyCount()
	e.Update(0.016) // must not panic or skip bodies

	if e.BodyCount() != before-1 {
		t.Errorf("body count = %d, want %d after deferred removal", e.BodyCount(), before-1)
	}

	// The removed body no longer collides
	e.Update(0.016)
	if star.Collected {
		t.Error("removal should not mark the body collected")
	}
}

func TestAddDuringUpdateIsDeferred(t *testing.T) {
	e := NewPhysicsEngine()

	spawner := &spawnOnHit{engine: e}
	rock := NewSphereBody(Vec3{X: 1}, 1, true)
	rock.Category = CategoryEnvironment
	e.AddBody(rock)

	body := NewSphereBody(Vec3{}, 1, false)
	body.Velocity = Vec3{X: 1}
	body.Handler = spawner
	e.AddBody(body)

	e.Update(0.016)

	if e.BodyCount() != 3 {
		t.Errorf("body count = %d, want 3 after deferred add", e.BodyCount())
	}
}

type spawnOnHit struct {
	engine  *PhysicsEngine
	spawned bool
}

func (h *spawnOnHit) OnCollision(hits []*RigidBody) {
	if !h.spawned {
		h.spawned = true
		h.engine.AddBody(NewSphereBody(Vec3{X: 50}, 1, true))
	}
}
