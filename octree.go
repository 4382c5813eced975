package main

// Octree is a spatial index used for broadcast interest culling: deciding
// which stars and particles are close enough to a player to send. It is
// rebuilt per broadcast and is deliberately not part of the collision
// system, which stays an exact registration-order linear scan.
type Octree struct {
	Bounds   Box
	Capacity int
	Entities []SpatialEntity
	Divided  bool
	Children [8]*Octree
}

// SpatialEntity is anything the octree can hold
type SpatialEntity interface {
	GetPosition() Vec3
	GetRadius() float64
}

// NewOctree creates an octree covering bounds with the given node capacity
func NewOctree(bounds Box, capacity int) *Octree {
	return &Octree{
		Bounds:   bounds,
		Capacity: capacity,
		Entities: make([]SpatialEntity, 0, capacity),
	}
}

// Insert adds an entity; returns false if it lies outside the bounds
func (ot *Octree) Insert(entity SpatialEntity) bool {
	pos := entity.GetPosition()
	if !ot.Bounds.Contains(pos) {
		return false
	}

	if len(ot.Entities) < ot.Capacity && !ot.Divided {
		ot.Entities = append(ot.Entities, entity)
		return true
	}

	if !ot.Divided {
		ot.subdivide()
	}

	for _, child := range ot.Children {
		if child.Insert(entity) {
			return true
		}
	}
	return false
}

func (ot *Octree) subdivide() {
	mid := Lerp(ot.Bounds.Min, ot.Bounds.Max, 0.5)
	lo := ot.Bounds.Min
	hi := ot.Bounds.Max

	i := 0
	for _, x := range [2][2]float64{{lo.X, mid.X}, {mid.X, hi.X}} {
		for _, y := range [2][2]float64{{lo.Y, mid.Y}, {mid.Y, hi.Y}} {
			for _, z := range [2][2]float64{{lo.Z, mid.Z}, {mid.Z, hi.Z}} {
				ot.Children[i] = NewOctree(Box{
					Min: Vec3{X: x[0], Y: y[0], Z: z[0]},
					Max: Vec3{X: x[1], Y: y[1], Z: z[1]},
				}, ot.Capacity)
				i++
			}
		}
	}
	ot.Divided = true

	for _, entity := range ot.Entities {
		for _, child := range ot.Children {
			if child.Insert(entity) {
				break
			}
		}
	}
	ot.Entities = nil
}

// QuerySphere returns all entities within radius of center, appending to
// found (pass nil to start fresh)
func (ot *Octree) QuerySphere(center Vec3, radius float64, found []SpatialEntity) []SpatialEntity {
	if found == nil {
		found = make([]SpatialEntity, 0)
	}

	if !SphereIntersectsBox(center, radius, ot.Bounds) {
		return found
	}

	for _, entity := range ot.Entities {
		if Distance(center, entity.GetPosition()) <= radius+entity.GetRadius() {
			found = append(found, entity)
		}
	}

	if ot.Divided {
		for _, child := range ot.Children {
			found = child.QuerySphere(center, radius, found)
		}
	}
	return found
}

// StarEntity wraps a Star for spatial queries
type StarEntity struct {
	*Star
}

func (se *StarEntity) GetPosition() Vec3 {
	return se.Body.Position
}

func (se *StarEntity) GetRadius() float64 {
	return se.Body.Shape.Radius
}

// ParticleEntity wraps a pooled particle for spatial queries. It holds the
// slot pointer; valid only for the duration of one broadcast snapshot.
type ParticleEntity struct {
	*Particle
}

func (pe *ParticleEntity) GetPosition() Vec3 {
	return pe.Position
}

func (pe *ParticleEntity) GetRadius() float64 {
	return pe.Size
}
