package main

// CollisionSystem keeps the registered collidable bodies and answers
// pairwise and one-against-all overlap queries. There is no spatial
// structure here: queries are a linear scan in registration order, which
// is plenty at this scene's object counts and keeps results deterministic.
type CollisionSystem struct {
	dynamic []*RigidBody
	static  []*RigidBody
}

// NewCollisionSystem creates an empty collision system
func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{
		dynamic: make([]*RigidBody, 0),
		static:  make([]*RigidBody, 0),
	}
}

// AddCollider registers a body in the dynamic or static list. No geometry
// validation is done; degenerate shapes are accepted.
func (cs *CollisionSystem) AddCollider(body *RigidBody, static bool) {
	if static {
		cs.static = append(cs.static, body)
	} else {
		cs.dynamic = append(cs.dynamic, body)
	}
}

// RemoveCollider removes a body from whichever list holds it. Removing an
// unknown body is a no-op; calling twice is safe.
func (cs *CollisionSystem) RemoveCollider(body *RigidBody) {
	cs.dynamic = removeBody(cs.dynamic, body)
	cs.static = removeBody(cs.static, body)
}

func removeBody(list []*RigidBody, body *RigidBody) []*RigidBody {
	for i, b := range list {
		if b == body {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// CheckCollision tests two bodies for overlap, dispatching on the pair of
// shape kinds. Touching counts as colliding on every branch. Unsupported
// kind pairs report no collision rather than an error.
func (cs *CollisionSystem) CheckCollision(a, b *RigidBody) bool {
	switch {
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeSphere:
		return SpheresOverlap(a.Position, a.Shape.Radius, b.Position, b.Shape.Radius)
	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeBox:
		return a.Bounds().Intersects(b.Bounds())
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeBox:
		return SphereIntersectsBox(a.Position, a.Shape.Radius, b.Bounds())
	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeSphere:
		return SphereIntersectsBox(b.Position, b.Shape.Radius, a.Bounds())
	default:
		return false
	}
}

// CheckCollisions returns every other registered body overlapping the given
// one: dynamic bodies first (excluding the body itself), then static bodies,
// each in registration order.
func (cs *CollisionSystem) CheckCollisions(body *RigidBody) []*RigidBody {
	var hits []*RigidBody
	for _, other := range cs.dynamic {
		if other == body {
			continue
		}
		if cs.CheckCollision(body, other) {
			hits = append(hits, other)
		}
	}
	for _, other := range cs.static {
		if other == body {
			continue
		}
		if cs.CheckCollision(body, other) {
			hits = append(hits, other)
		}
	}
	return hits
}
