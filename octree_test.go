package main

import "testing"

type pointEntity struct {
	pos    Vec3
	radius float64
}

func (p *pointEntity) GetPosition() Vec3  { return p.pos }
func (p *pointEntity) GetRadius() float64 { return p.radius }

func worldBounds() Box {
	return Box{
		Min: Vec3{X: -WorldExtentX, Y: -WorldExtentY, Z: -WorldExtentZ},
		Max: Vec3{X: WorldExtentX, Y: WorldExtentY, Z: WorldExtentZ},
	}
}

func TestOctreeInsertOutsideBounds(t *testing.T) {
	tree := NewOctree(worldBounds(), 4)

	if tree.Insert(&pointEntity{pos: Vec3{X: WorldExtentX * 2}}) {
		t.Error("insert outside bounds should fail")
	}
	if !tree.Insert(&pointEntity{pos: Vec3{}}) {
		t.Error("insert inside bounds should succeed")
	}
}

func TestOctreeQueryMatchesLinearScan(t *testing.T) {
	tree := NewOctree(worldBounds(), 4)

	entities := make([]*pointEntity, 0, 200)
	for i := 0; i < 200; i++ {
		e := &pointEntity{
			pos: Vec3{
				X: RandomFloat(-WorldExtentX, WorldExtentX),
				Y: RandomFloat(-WorldExtentY, WorldExtentY),
				Z: RandomFloat(-WorldExtentZ, WorldExtentZ),
			},
		}
		entities = append(entities, e)
		tree.Insert(e)
	}

	center := Vec3{X: 10, Y: 0, Z: -5}
	radius := 40.0

	got := tree.QuerySphere(center, radius, nil)
	inTree := make(map[SpatialEntity]bool, len(got))
	for _, e := range got {
		inTree[e] = true
	}

	for _, e := range entities {
		want := Distance(center, e.pos) <= radius
		if want && !inTree[e] {
			t.Errorf("octree missed entity at %v", e.pos)
		}
		if !want && inTree[e] {
			t.Errorf("octree returned entity at %v outside the query", e.pos)
		}
	}
}

func TestOctreeSubdivision(t *testing.T) {
	tree := NewOctree(worldBounds(), 2)

	// Cluster enough co-located entities to force subdivision
	for i := 0; i < 10; i++ {
		tree.Insert(&pointEntity{pos: Vec3{X: float64(i), Y: 1, Z: 1}})
	}
	if !tree.Divided {
		t.Fatal("tree did not subdivide past capacity")
	}

	got := tree.QuerySphere(Vec3{X: 4.5, Y: 1, Z: 1}, 100, nil)
	if len(got) != 10 {
		t.Errorf("found %d entities after subdivision, want 10", len(got))
	}
}
