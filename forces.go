package main

// UnderwaterForces models the ambient environment acting on dynamic bodies:
// a constant upward buoyancy, an exponential drag, and a gentle directional
// current. It only ever mutates velocity; integration happens in the engine.
type UnderwaterForces struct {
	BuoyancyAccel      float64
	DragCoefficient    float64 // applied multiplicatively every step
	CurrentDirection   Vec3
	CurrentStrength    float64
	StrengthMultiplier float64
}

// DefaultUnderwaterForces returns the forces tuned for the reef scene.
func DefaultUnderwaterForces() UnderwaterForces {
	return UnderwaterForces{
		BuoyancyAccel:      BuoyancyAccel,
		DragCoefficient:    DragCoefficient,
		CurrentDirection:   Vec3{X: 1, Y: 0, Z: 0.4}.Normalize(),
		CurrentStrength:    CurrentStrength,
		StrengthMultiplier: 1.0,
	}
}

// Apply advances a body's velocity by one step of environmental forces.
// Order is fixed and load-bearing: buoyancy feeds into drag, current is
// added last untouched, so v' = (v + buoyancy) * drag + current.
func (f *UnderwaterForces) Apply(body *RigidBody, dt float64) {
	body.Velocity.Y += f.BuoyancyAccel * dt
	body.Velocity = body.Velocity.Mul(f.DragCoefficient)
	body.Velocity = body.Velocity.Add(
		f.CurrentDirection.Mul(f.CurrentStrength * f.StrengthMultiplier * dt))
}
