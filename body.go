package main

// ShapeKind tags the collision shape variant of a body
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
)

// Shape is a tagged shape variant. Radius is used for spheres,
// HalfExtents for boxes; the unused fields stay zero.
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents Vec3
}

// Body categories used for gameplay dispatch. Category is an open string;
// these are just the values the game itself uses.
const (
	CategoryPlayer      = "player"
	CategoryCollectible = "collectible"
	CategoryEnvironment = "environment"
	CategoryGateSegment = "gate-segment"
)

// CollisionHandler reacts to the full set of bodies a dynamic body
// overlapped this frame. The owner of the body decides whether to react.
type CollisionHandler interface {
	OnCollision(hits []*RigidBody)
}

// RigidBody is a point-mass object with a collision shape. Static bodies
// never integrate but still participate in collision queries. Position and
// velocity are owned by the physics engine; other code mutates them only
// through the engine or the owning component's setters.
type RigidBody struct {
	Position  Vec3
	Velocity  Vec3
	Shape     Shape
	Static    bool
	Category  string
	Collected bool // collectibles only; a collected collectible blocks like anything else
	Handler   CollisionHandler

	previousPosition Vec3
}

// NewSphereBody returns an unregistered zero-velocity sphere body.
// No geometry validation: a zero or negative radius is accepted and will
// simply never report overlaps correctly.
func NewSphereBody(position Vec3, radius float64, static bool) *RigidBody {
	return &RigidBody{
		Position: position,
		Shape:    Shape{Kind: ShapeSphere, Radius: radius},
		Static:   static,
	}
}

// NewBoxBody returns an unregistered zero-velocity axis-aligned box body.
// size is the full extent on each axis.
func NewBoxBody(position, size Vec3, static bool) *RigidBody {
	return &RigidBody{
		Position: position,
		Shape:    Shape{Kind: ShapeBox, HalfExtents: size.Mul(0.5)},
		Static:   static,
	}
}

// Bounds returns the axis-aligned bounding box of the body at its current
// position. Spheres use a cube of side 2r.
func (b *RigidBody) Bounds() Box {
	switch b.Shape.Kind {
	case ShapeSphere:
		r := b.Shape.Radius
		return BoxAround(b.Position, Vec3{X: r, Y: r, Z: r})
	case ShapeBox:
		return BoxAround(b.Position, b.Shape.HalfExtents)
	default:
		return BoxAround(b.Position, Vec3{})
	}
}

// BoundingRadius returns a conservative sphere radius enclosing the shape,
// used for broadcast interest culling.
func (b *RigidBody) BoundingRadius() float64 {
	switch b.Shape.Kind {
	case ShapeSphere:
		return b.Shape.Radius
	case ShapeBox:
		return b.Shape.HalfExtents.Length()
	default:
		return 0
	}
}
