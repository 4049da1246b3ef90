package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanarDistIgnoresHeight(t *testing.T) {
	a := Vec{X: 0, Y: 0, Z: 0}
	b := Vec{X: 3, Y: 25, Z: 4}
	assert.InDelta(t, 5.0, PlanarDist(a, b), 1e-9)
}

func TestPlanarDirUnitLength(t *testing.T) {
	from := Vec{X: 1, Z: 1}
	to := Vec{X: 4, Z: 5}
	d := PlanarDir(from, to)
	assert.InDelta(t, 0.6, d.X, 1e-9)
	assert.InDelta(t, 0.8, d.Z, 1e-9)
	assert.Zero(t, d.Y)
}

func TestPlanarDirSamePoint(t *testing.T) {
	p := Vec{X: 7, Z: -2}
	assert.Equal(t, Vec{}, PlanarDir(p, p))
}

func TestGap(t *testing.T) {
	a := Cylinder{Center: Vec{X: 0}, Radius: 5, Height: 20}
	b := Cylinder{Center: Vec{X: 100}, Radius: 5, Height: 20}
	assert.InDelta(t, 90.0, Gap(a, b), 1e-9)

	// already overlapping volumes have no closing distance left
	c := Cylinder{Center: Vec{X: 8}, Radius: 5, Height: 20}
	assert.Zero(t, Gap(a, c))
}

func TestOverlapsTouchingCounts(t *testing.T) {
	a := Cylinder{Center: Vec{X: 0}, Radius: 5, Height: 20}
	b := Cylinder{Center: Vec{X: 10}, Radius: 5, Height: 20}
	assert.True(t, Overlaps(a, b), "bases touching edge to edge must count as contact")

	far := Cylinder{Center: Vec{X: 10.01}, Radius: 5, Height: 20}
	assert.False(t, Overlaps(a, far))
}

func TestOverlapsRespectsHeight(t *testing.T) {
	ground := Cylinder{Center: Vec{X: 0, Y: 0}, Radius: 5, Height: 10}
	stacked := Cylinder{Center: Vec{X: 0, Y: 30}, Radius: 5, Height: 10}
	assert.False(t, Overlaps(ground, stacked), "a model on high terrain is not in contact with one below")

	ledge := Cylinder{Center: Vec{X: 0, Y: 8}, Radius: 5, Height: 10}
	assert.True(t, Overlaps(ground, ledge))
}

func TestDirectPlacementAtGapRegistersContact(t *testing.T) {
	// Walking straight at the enemy for exactly Gap units must end in
	// contact despite float rounding.
	a := Cylinder{Center: Vec{X: 1.1, Z: 2.3}, Radius: 4.7, Height: 20}
	b := Cylinder{Center: Vec{X: 91.7, Z: -13.9}, Radius: 3.3, Height: 20}
	g := Gap(a, b)
	dir := PlanarDir(a.Center, b.Center)
	moved := a
	moved.Center = a.Center.Add(dir.Scale(g))
	assert.True(t, Overlaps(moved, b))
}
