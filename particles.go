package main

// RGB is an 8-bit color
type RGB struct {
	R, G, B uint8
}

// Jitter returns the color offset by a random amount up to +/- spread on
// each channel, clamped to the valid range.
func (c RGB) Jitter(spread int) RGB {
	if spread <= 0 {
		return c
	}
	return RGB{
		R: clampChannel(int(c.R) + RandomInt(-spread, spread)),
		G: clampChannel(int(c.G) + RandomInt(-spread, spread)),
		B: clampChannel(int(c.B) + RandomInt(-spread, spread)),
	}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Particle is one pooled slot. All slots are allocated up front and reused;
// a particle is active while Life > 0.
type Particle struct {
	Position Vec3
	Velocity Vec3
	Life     float64
	MaxLife  float64
	Size     float64
	Color    RGB
	Alpha    float64
}

// Active reports whether the slot currently holds a live particle
func (p *Particle) Active() bool {
	return p.Life > 0
}

// reset repurposes a slot for a new particle
func (p *Particle) reset(position, velocity Vec3, life, size float64, color RGB) {
	p.Position = position
	p.Velocity = velocity
	p.Life = life
	p.MaxLife = life
	p.Size = size
	p.Color = color
	p.Alpha = 1.0
}

// EmitterConfig describes a continuous particle source
type EmitterConfig struct {
	Kind              string // tag used by SetEmitterActive
	Position          Vec3
	Rate              float64 // particles per second
	Life              float64
	SizeMin           float64
	SizeMax           float64
	Velocity          Vec3
	VelocityVariation Vec3
	Color             RGB
	ColorVariation    int  // per-channel jitter, 0 for none
	Area              Vec3 // emission box half extents around Position
}

// Emitter is a live continuous source. Emitters are toggled, never removed
// individually.
type Emitter struct {
	EmitterConfig
	Active      bool
	accumulator float64
}

// BurstConfig describes a one-shot emission at a fixed point
type BurstConfig struct {
	Count             int
	Life              float64
	Size              float64
	Velocity          Vec3
	VelocityVariation Vec3
	Color             RGB
}

// ParticleSystem is a fixed-capacity pool of reusable particles plus the
// emitters that feed it. Capacity is set at construction; excess emission
// is silently dropped. No allocation happens after startup.
type ParticleSystem struct {
	pool     []Particle
	emitters []*Emitter
}

// NewParticleSystem pre-allocates a pool of max inactive particles
func NewParticleSystem(max int) *ParticleSystem {
	if max <= 0 {
		max = MaxParticles
	}
	return &ParticleSystem{
		pool:     make([]Particle, max),
		emitters: make([]*Emitter, 0),
	}
}

// AddEmitter registers a new continuous emitter, active immediately
func (ps *ParticleSystem) AddEmitter(cfg EmitterConfig) *Emitter {
	e := &Emitter{EmitterConfig: cfg, Active: true}
	ps.emitters = append(ps.emitters, e)
	return e
}

// SetEmitterActive toggles the first emitter with the given kind tag.
// No match is a no-op.
func (ps *ParticleSystem) SetEmitterActive(kind string, active bool) {
	for _, e := range ps.emitters {
		if e.Kind == kind {
			e.Active = active
			return
		}
	}
}

// Update drives emission, then advances every active particle. Emitters
// run first, so a particle born this frame is integrated and aged by the
// same dt in the particle pass below.
func (ps *ParticleSystem) Update(dt float64) {
	for _, e := range ps.emitters {
		if !e.Active || e.Rate <= 0 {
			continue
		}
		e.accumulator += dt
		interval := 1.0 / e.Rate
		// A while loop, not a conditional: a long frame emits everything
		// it owes instead of losing emissions.
		for e.accumulator >= interval {
			e.accumulator -= interval
			ps.emitParticle(e)
		}
	}

	for i := range ps.pool {
		p := &ps.pool[i]
		if !p.Active() {
			continue
		}
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Life -= dt
		if p.Life <= 0 {
			p.Life = 0
			p.Alpha = 0
			continue
		}
		p.Alpha = p.Life / p.MaxLife
	}
}

// emitParticle spawns one particle from a continuous emitter into the
// first inactive slot. Pool exhausted means the emission is dropped.
func (ps *ParticleSystem) emitParticle(e *Emitter) {
	slot := ps.findInactive()
	if slot == nil {
		return
	}
	slot.reset(
		RandomInBox(e.Position, e.Area),
		JitterVec(e.Velocity, e.VelocityVariation),
		e.Life,
		RandomFloat(e.SizeMin, e.SizeMax),
		e.Color.Jitter(e.ColorVariation),
	)
}

// CreateBurst emits up to cfg.Count particles at once, all at the given
// position. Velocity is jittered per particle; life, size, and color are
// used as supplied. Stops early without error when the pool runs dry.
func (ps *ParticleSystem) CreateBurst(position Vec3, cfg BurstConfig) {
	for i := 0; i < cfg.Count; i++ {
		slot := ps.findInactive()
		if slot == nil {
			return
		}
		slot.reset(
			position,
			JitterVec(cfg.Velocity, cfg.VelocityVariation),
			cfg.Life,
			cfg.Size,
			cfg.Color,
		)
	}
}

func (ps *ParticleSystem) findInactive() *Particle {
	for i := range ps.pool {
		if !ps.pool[i].Active() {
			return &ps.pool[i]
		}
	}
	return nil
}

// Clear deactivates every particle immediately. Emitter state is untouched.
func (ps *ParticleSystem) Clear() {
	for i := range ps.pool {
		ps.pool[i].Life = 0
		ps.pool[i].Alpha = 0
	}
}

// ActiveCount returns the number of live particles
func (ps *ParticleSystem) ActiveCount() int {
	n := 0
	for i := range ps.pool {
		if ps.pool[i].Active() {
			n++
		}
	}
	return n
}

// ForEachActive calls fn for every live particle, in pool order
func (ps *ParticleSystem) ForEachActive(fn func(*Particle)) {
	for i := range ps.pool {
		if ps.pool[i].Active() {
			fn(&ps.pool[i])
		}
	}
}

// Ambient emitter kinds
const (
	EmitterBubbles  = "bubbles"
	EmitterPlankton = "plankton"
	EmitterLightRay = "lightray"
)

// AddAmbientEmitters installs the three always-on background sources:
// sparse rising bubbles, slow drifting plankton, and occasional light-ray
// motes sinking from the surface. Rates are low so bursts stay readable
// on top of them.
func (ps *ParticleSystem) AddAmbientEmitters(center Vec3) {
	ps.AddEmitter(EmitterConfig{
		Kind:              EmitterBubbles,
		Position:          Vec3{X: center.X, Y: -WorldExtentY * 0.6, Z: center.Z},
		Rate:              3.0,
		Life:              8.0,
		SizeMin:           0.08,
		SizeMax:           0.3,
		Velocity:          Vec3{Y: 2.2},
		VelocityVariation: Vec3{X: 0.4, Y: 0.8, Z: 0.4},
		Color:             RGB{R: 200, G: 230, B: 255},
		ColorVariation:    15,
		Area:              Vec3{X: WorldExtentX * 0.8, Y: WorldExtentY * 0.2, Z: WorldExtentZ * 0.8},
	})
	ps.AddEmitter(EmitterConfig{
		Kind:              EmitterPlankton,
		Position:          center,
		Rate:              5.0,
		Life:              12.0,
		SizeMin:           0.03,
		SizeMax:           0.12,
		Velocity:          Vec3{X: 0.15, Y: 0.05},
		VelocityVariation: Vec3{X: 0.2, Y: 0.1, Z: 0.2},
		Color:             RGB{R: 180, G: 210, B: 190},
		ColorVariation:    25,
		Area:              Vec3{X: WorldExtentX, Y: WorldExtentY * 0.8, Z: WorldExtentZ},
	})
	ps.AddEmitter(EmitterConfig{
		Kind:              EmitterLightRay,
		Position:          Vec3{X: center.X, Y: WorldExtentY * 0.7, Z: center.Z},
		Rate:              1.2,
		Life:              10.0,
		SizeMin:           0.15,
		SizeMax:           0.5,
		Velocity:          Vec3{Y: -0.6},
		VelocityVariation: Vec3{X: 0.1, Y: 0.2, Z: 0.1},
		Color:             RGB{R: 255, G: 250, B: 210},
		ColorVariation:    10,
		Area:              Vec3{X: WorldExtentX * 0.6, Y: WorldExtentY * 0.1, Z: WorldExtentZ * 0.6},
	})
}
