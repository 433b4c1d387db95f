// Package geo provides the spatial primitives for the map index:
// integer cell keys, room rectangles, and distance math.
package geo

import (
	"math"

	"github.com/GallupGovt/ASIST/internal/model/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Cell is an integer (x,z) grid coordinate. Room bounds and beep trigger
// points are defined on this grid; player positions are continuous and
// must be probed against neighboring cells.
type Cell struct {
	X int
	Z int
}

// RoomRect is the inclusive integer rectangle of a leaf room, backed by
// a geom.Envelope for containment checks.
type RoomRect struct {
	env geom.Envelope
}

// NewRoomRect builds a rectangle from inclusive corner bounds in any
// order.
func NewRoomRect(x1, x2, z1, z2 int) RoomRect {
	a := geom.XY{X: float64(x1), Y: float64(z1)}
	b := geom.XY{X: float64(x2), Y: float64(z2)}
	// Integer corners are always finite, so the constructor cannot
	// reject them.
	env, _ := geom.NewEnvelope([]geom.XY{a, b})
	return RoomRect{env: env}
}

// Contains reports whether the integer cell lies within the rectangle.
func (r RoomRect) Contains(c Cell) bool {
	return r.env.Contains(geom.XY{X: float64(c.X), Y: float64(c.Z)})
}

// Cells iterates every integer cell of the rectangle in row order.
func (r RoomRect) Cells(fn func(Cell)) {
	min, ok := r.env.Min().XY()
	if !ok {
		return
	}
	max, _ := r.env.Max().XY()
	for x := int(min.X); x <= int(max.X); x++ {
		for z := int(min.Y); z <= int(max.Y); z++ {
			fn(Cell{X: x, Z: z})
		}
	}
}

// Envelope exposes the underlying geometry, used to accumulate the map's
// overall bounding box.
func (r RoomRect) Envelope() geom.Envelope {
	return r.env
}

// CornerCells returns the four floor/ceil integer combinations around a
// continuous (x,z) position, in the fixed probe order the trigger lookup
// depends on.
func CornerCells(x, z float64) [4]Cell {
	fx, cx := int(math.Floor(x)), int(math.Ceil(x))
	fz, cz := int(math.Floor(z)), int(math.Ceil(z))
	return [4]Cell{
		{X: fx, Z: fz},
		{X: fx, Z: cz},
		{X: cx, Z: fz},
		{X: cx, Z: cz},
	}
}

// Distance3D is the Euclidean distance between two positions.
func Distance3D(a, b core.Position3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
