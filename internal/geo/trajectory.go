package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"
)

// Trajectory accumulates the player's path over a trial as an (x,z)
// line string. Exported with the trial result for plotting downstream.
type Trajectory struct {
	coords []float64
}

// Add appends a position to the path.
func (t *Trajectory) Add(x, z float64) {
	t.coords = append(t.coords, x, z)
}

// Len returns the number of points recorded.
func (t *Trajectory) Len() int {
	return len(t.coords) / 2
}

// LineString builds the geometry. Returns false when fewer than two
// distinct points were recorded.
func (t *Trajectory) LineString() (geom.LineString, bool) {
	if t.Len() < 2 {
		return geom.LineString{}, false
	}
	seq := geom.NewSequence(t.coords, geom.DimXY)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		// Every recorded point shares one XY value.
		return geom.LineString{}, false
	}
	return ls, true
}

// WKT renders the path as well-known text, or "" when too short.
func (t *Trajectory) WKT() string {
	ls, ok := t.LineString()
	if !ok {
		return ""
	}
	return ls.AsText()
}
