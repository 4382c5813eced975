package main

import (
	"math/rand"
	"time"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

// RandomFloat generates a random float between min and max
func RandomFloat(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// RandomInt generates a random integer between min and max (inclusive)
func RandomInt(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// Clamp restricts a value between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RandomInBox returns a point uniformly distributed inside a box
// centered at center with the given half extents.
func RandomInBox(center, half Vec3) Vec3 {
	return Vec3{
		X: center.X + RandomFloat(-half.X, half.X),
		Y: center.Y + RandomFloat(-half.Y, half.Y),
		Z: center.Z + RandomFloat(-half.Z, half.Z),
	}
}

// JitterVec returns base plus a uniform random offset within +/- variation
// on each axis.
func JitterVec(base, variation Vec3) Vec3 {
	return Vec3{
		X: base.X + RandomFloat(-variation.X, variation.X),
		Y: base.Y + RandomFloat(-variation.Y, variation.Y),
		Z: base.Z + RandomFloat(-variation.Z, variation.Z),
	}
}
