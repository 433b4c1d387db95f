package ledger

import (
	"testing"

	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() core.RoomState {
	s := core.RoomState{
		"a": {Green: 1, Yellow: 1},
		"b": {Green: 0, Yellow: 2},
		"c": {Green: 2, Yellow: 0},
	}
	s.UpdateTypes()
	return s
}

func TestStateAtBeforeAnyTriage(t *testing.T) {
	l := Build(testState(), 1000, nil)

	s, err := l.StateAt(0)
	require.NoError(t, err)
	assert.Equal(t, core.RoomCount{Green: 1, Yellow: 1, Type: core.RoomBoth}, s["a"])
	assert.Equal(t, core.RoomCount{Green: 3, Yellow: 3, Type: core.RoomBoth}, s[core.TotalRoom])
}

func TestStateAtAppliesTriageInOrder(t *testing.T) {
	triage := []TriageMark{
		{Row: 10, Room: "a", Color: core.Yellow},
		{Row: 20, Room: "c", Color: core.Green},
		{Row: 30, Room: "b", Color: core.Yellow},
	}
	l := Build(testState(), 1000, triage)

	s, err := l.StateAt(9)
	require.NoError(t, err)
	assert.Equal(t, core.RoomCount{Green: 1, Yellow: 1, Type: core.RoomBoth}, s["a"])

	s, err = l.StateAt(10)
	require.NoError(t, err)
	assert.Equal(t, core.RoomCount{Green: 1, Yellow: 0, Type: core.RoomGreenOnly}, s["a"])

	s, err = l.StateAt(25)
	require.NoError(t, err)
	assert.Equal(t, core.RoomCount{Green: 1, Yellow: 0, Type: core.RoomGreenOnly}, s["c"])
	assert.Equal(t, core.RoomCount{Green: 0, Yellow: 2, Type: core.RoomYellowOnly}, s["b"])

	s, err = l.StateAt(100000)
	require.NoError(t, err)
	assert.Equal(t, core.RoomCount{Green: 2, Yellow: 1, Type: core.RoomBoth}, s[core.TotalRoom])
}

func TestExpireSplitsStraddlingInterval(t *testing.T) {
	triage := []TriageMark{
		{Row: 10, Room: "a", Color: core.Yellow},
		{Row: 90, Room: "c", Color: core.Green},
	}
	l := Build(testState(), 50, triage)

	// row 49 still sees live yellows
	s, err := l.StateAt(49)
	require.NoError(t, err)
	assert.Equal(t, 2, s["b"].Yellow)

	// row 50 sees them all expired even though no triage occurs there
	s, err = l.StateAt(50)
	require.NoError(t, err)
	assert.Equal(t, core.RoomCount{Green: 0, Yellow: 0, Type: core.RoomEmpty}, s["b"])
	assert.Equal(t, 0, s[core.TotalRoom].Yellow)
}

func TestExpireBeforeTriageDecrement(t *testing.T) {
	// A yellow triage landing at or after the expire row must not go
	// negative: the expiry zeroes the count first, the decrement floors.
	triage := []TriageMark{
		{Row: 50, Room: "b", Color: core.Yellow},
	}
	l := Build(testState(), 50, triage)

	s, err := l.StateAt(50)
	require.NoError(t, err)
	assert.Equal(t, 0, s["b"].Yellow)
	assert.Equal(t, 0, s[core.TotalRoom].Yellow)
}

func TestRollingAgreesWithStateAt(t *testing.T) {
	triage := []TriageMark{
		{Row: 5, Room: "a", Color: core.Green},
		{Row: 12, Room: "b", Color: core.Yellow},
		{Row: 40, Room: "b", Color: core.Yellow},
		{Row: 70, Room: "c", Color: core.Green},
	}
	l := Build(testState(), 30, triage)
	r := NewRolling(testState(), 30, triage)

	for row := 0; row <= 100; row++ {
		want, err := l.StateAt(row)
		require.NoError(t, err)
		assert.Equal(t, want, r.At(row), "row %d", row)
	}
}

func TestSnapshotsCoverEveryRow(t *testing.T) {
	triage := []TriageMark{
		{Row: 3, Room: "a", Color: core.Green},
		{Row: 3, Room: "a", Color: core.Yellow},
		{Row: 8, Room: "c", Color: core.Green},
	}
	l := Build(testState(), 6, triage)

	snaps := l.Snapshots()
	require.NotEmpty(t, snaps)
	assert.Equal(t, 0, snaps[0].RowBegin)
	for i := 1; i < len(snaps); i++ {
		assert.Equal(t, snaps[i-1].RowEnd+1, snaps[i].RowBegin)
	}
}
