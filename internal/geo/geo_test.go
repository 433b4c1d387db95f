package geo

import (
	"testing"

	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/stretchr/testify/assert"
)

func TestRoomRectContains(t *testing.T) {
	r := NewRoomRect(-5, 3, 10, 14)

	assert.True(t, r.Contains(Cell{X: -5, Z: 10}))
	assert.True(t, r.Contains(Cell{X: 3, Z: 14}))
	assert.True(t, r.Contains(Cell{X: 0, Z: 12}))
	assert.False(t, r.Contains(Cell{X: 4, Z: 12}))
	assert.False(t, r.Contains(Cell{X: 0, Z: 9}))
}

func TestRoomRectCornerOrderIndependent(t *testing.T) {
	a := NewRoomRect(3, -5, 14, 10)
	b := NewRoomRect(-5, 3, 10, 14)

	for x := -6; x <= 4; x++ {
		for z := 9; z <= 15; z++ {
			c := Cell{X: x, Z: z}
			assert.Equal(t, b.Contains(c), a.Contains(c), "cell %v", c)
		}
	}
}

func TestRoomRectCells(t *testing.T) {
	r := NewRoomRect(1, 2, 7, 8)

	var cells []Cell
	r.Cells(func(c Cell) { cells = append(cells, c) })

	assert.Equal(t, []Cell{
		{X: 1, Z: 7}, {X: 1, Z: 8},
		{X: 2, Z: 7}, {X: 2, Z: 8},
	}, cells)
}

func TestCornerCellsProbeOrder(t *testing.T) {
	// (floor,floor), (floor,ceil), (ceil,floor), (ceil,ceil)
	cells := CornerCells(2.4, -7.3)
	assert.Equal(t, [4]Cell{
		{X: 2, Z: -8},
		{X: 2, Z: -7},
		{X: 3, Z: -8},
		{X: 3, Z: -7},
	}, cells)
}

func TestCornerCellsIntegerPosition(t *testing.T) {
	cells := CornerCells(5, 9)
	for _, c := range cells {
		assert.Equal(t, Cell{X: 5, Z: 9}, c)
	}
}

func TestDistance3D(t *testing.T) {
	a := core.Position3D{X: 1, Y: 2, Z: 3}
	b := core.Position3D{X: 4, Y: 6, Z: 3}
	assert.InDelta(t, 5.0, Distance3D(a, b), 1e-9)
	assert.Zero(t, Distance3D(a, a))
}

func TestTrajectory(t *testing.T) {
	var tr Trajectory
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, "", tr.WKT())

	tr.Add(1, 2)
	_, ok := tr.LineString()
	assert.False(t, ok)

	tr.Add(3, 4)
	tr.Add(5, 6)
	assert.Equal(t, 3, tr.Len())

	ls, ok := tr.LineString()
	assert.True(t, ok)
	assert.Equal(t, 3, ls.Coordinates().Length())
}

func TestTrajectoryStationary(t *testing.T) {
	// A player who never moves produces no usable line string.
	var tr Trajectory
	tr.Add(4, 4)
	tr.Add(4, 4)
	tr.Add(4, 4)

	_, ok := tr.LineString()
	assert.False(t, ok)
	assert.Equal(t, "", tr.WKT())
}
