package main

import "math"

// Vec3 represents a 3D vector
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add adds two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub subtracts two vectors
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Mul multiplies a vector by a scalar
func (v Vec3) Mul(scalar float64) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}

// ClampLength limits the magnitude of the vector to max
func (v Vec3) ClampLength(max float64) Vec3 {
	length := v.Length()
	if length <= max || length == 0 {
		return v
	}
	return v.Mul(max / length)
}

// Distance returns the distance between two points
func Distance(a, b Vec3) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Lerp performs linear interpolation between two vectors
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// Box represents an axis-aligned bounding box
type Box struct {
	Min Vec3
	Max Vec3
}

// BoxAround builds a box from a center point and half extents
func BoxAround(center, half Vec3) Box {
	return Box{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

// Contains checks if a point is inside the box
func (b Box) Contains(point Vec3) bool {
	return point.X >= b.Min.X && point.X <= b.Max.X &&
		point.Y >= b.Min.Y && point.Y <= b.Max.Y &&
		point.Z >= b.Min.Z && point.Z <= b.Max.Z
}

// Intersects checks if two boxes overlap; touching faces count
func (b Box) Intersects(other Box) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// ClosestPointInBox clamps a point to the box, giving the nearest point on or inside it
func ClosestPointInBox(point Vec3, box Box) Vec3 {
	return Vec3{
		X: math.Max(box.Min.X, math.Min(point.X, box.Max.X)),
		Y: math.Max(box.Min.Y, math.Min(point.Y, box.Max.Y)),
		Z: math.Max(box.Min.Z, math.Min(point.Z, box.Max.Z)),
	}
}

// SphereIntersectsBox checks if a sphere intersects with a box
func SphereIntersectsBox(center Vec3, radius float64, box Box) bool {
	closest := ClosestPointInBox(center, box)
	return Distance(center, closest) <= radius
}

// SpheresOverlap checks if two spheres overlap; touching counts
func SpheresOverlap(pos1 Vec3, radius1 float64, pos2 Vec3, radius2 float64) bool {
	return Distance(pos1, pos2) <= radius1+radius2
}
