// Package geom holds the planar math the rules engine measures with.
// Distances ignore the vertical (Y) axis: models move on a table, and
// tabletop measurement is always along the surface. The only place height
// matters is cylinder overlap, so models on raised terrain do not count as
// touching models below them.
package geom

import "math"

// contactEpsilon absorbs float error so a model placed exactly at closing
// distance still registers as being in contact.
const contactEpsilon = 1e-6

// Vec is a point or displacement in world units.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s, v.Z * s}
}

// PlanarDist returns the distance between a and b projected onto the table
// surface.
func PlanarDist(a, b Vec) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// PlanarDir returns the unit vector pointing from `from` toward `to` along
// the table surface (Y component zero). Returns the zero vector when the
// two points share a footprint.
func PlanarDir(from, to Vec) Vec {
	dx := to.X - from.X
	dz := to.Z - from.Z
	d := math.Sqrt(dx*dx + dz*dz)
	if d == 0 {
		return Vec{}
	}
	return Vec{X: dx / d, Z: dz / d}
}

// Cylinder is the bounding volume of a combatant: base circle centered at
// Center (base resting at Center.Y), extending Height upward.
type Cylinder struct {
	Center Vec
	Radius float64
	Height float64
}

// Overlaps reports whether two cylinders intersect. Touching counts.
func Overlaps(a, b Cylinder) bool {
	if PlanarDist(a.Center, b.Center) > a.Radius+b.Radius+contactEpsilon {
		return false
	}
	// vertical extents must meet as well
	return a.Center.Y <= b.Center.Y+b.Height+contactEpsilon &&
		b.Center.Y <= a.Center.Y+a.Height+contactEpsilon
}

// Gap returns the minimum closing distance between two cylinders along the
// table surface: how far one must travel straight at the other before the
// base circles touch. Zero when already overlapping.
func Gap(a, b Cylinder) float64 {
	g := PlanarDist(a.Center, b.Center) - a.Radius - b.Radius
	if g < 0 {
		return 0
	}
	return g
}
