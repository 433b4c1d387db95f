package victim

import (
	"strings"
	"testing"

	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/GallupGovt/ASIST/internal/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryMap = `{
	"locations": [
		{"id": "br", "name": "Break Room", "type": "room",
			"bounds": {"coordinates": [{"x": 0, "z": 0}, {"x": 5, "z": 5}]}},
		{"id": "cf", "name": "Computer Farm", "type": "room",
			"bounds": {"coordinates": [{"x": 10, "z": 0}, {"x": 15, "z": 5}]}}
	]
}`

const registryTriggers = `RoomName,LocationXYZ
Break Room,1 60 1
The Computer Farm,11 60 1
`

func registryIndex(t *testing.T) *semantic.Index {
	t.Helper()
	ix, err := semantic.BuildIndex(strings.NewReader(registryMap), strings.NewReader(registryTriggers))
	require.NoError(t, err)
	return ix
}

func TestAddFromGroundTruth(t *testing.T) {
	ix := registryIndex(t)
	r := NewRegistry()

	blocks := []core.VictimBlock{
		{BlockType: "block_victim_1", X: 1, Y: 60, Z: 1, RoomName: "Break Room"},
		{BlockType: "block_victim_2", X: 11, Y: 60, Z: 2, RoomName: "The Computer Farm"},
		{BlockType: "gravel", X: 3, Y: 60, Z: 3, RoomName: "Break Room"},
		// duplicate id, second occurrence dropped
		{BlockType: "block_victim_2", X: 1, Y: 60, Z: 1, RoomName: "Break Room"},
	}
	r.AddFromGroundTruth(blocks, ix)

	assert.Equal(t, 2, r.Len())

	v, ok := r.Get(core.VictimID{X: 1, Y: 60, Z: 1})
	require.True(t, ok)
	assert.Equal(t, core.Green, v.Color)
	assert.Equal(t, "br", v.Room)

	v, ok = r.Get(core.VictimID{X: 11, Y: 60, Z: 2})
	require.True(t, ok)
	assert.Equal(t, core.Yellow, v.Color)
	assert.Equal(t, "cf", v.Room)
}

func TestMarkFirstSeenWriteOnce(t *testing.T) {
	ix := registryIndex(t)
	r := NewRegistry()
	r.AddFromGroundTruth([]core.VictimBlock{
		{BlockType: "block_victim_1", X: 1, Y: 60, Z: 1, RoomName: "Break Room"},
	}, ix)

	id := core.VictimID{X: 1, Y: 60, Z: 1}
	r.MarkFirstSeen(id, 540)
	r.MarkFirstSeen(id, 300)

	v, _ := r.Get(id)
	require.NotNil(t, v.FirstSeen)
	assert.Equal(t, 540.0, *v.FirstSeen)

	// unknown id is a no-op
	r.MarkFirstSeen(core.VictimID{X: 99, Y: 99, Z: 99}, 100)
}

func TestRoomCounts(t *testing.T) {
	ix := registryIndex(t)
	state := ix.InitialRoomState()

	blocks := []core.VictimBlock{
		{BlockType: "block_victim_1", X: 1, Y: 60, Z: 1, RoomName: "Break Room"},
		{BlockType: "block_victim_1", X: 2, Y: 60, Z: 2, RoomName: "Break Room"},
		{BlockType: "block_victim_2", X: 11, Y: 60, Z: 2, RoomName: "The Computer Farm"},
		// duplicate id counts once
		{BlockType: "block_victim_2", X: 11, Y: 60, Z: 2, RoomName: "The Computer Farm"},
		{BlockType: "gravel", X: 3, Y: 60, Z: 3, RoomName: "Break Room"},
	}
	require.NoError(t, RoomCounts(blocks, ix, state))

	assert.Equal(t, core.RoomCount{Green: 2, Yellow: 0, Type: core.RoomGreenOnly}, state["br"])
	assert.Equal(t, core.RoomCount{Green: 0, Yellow: 1, Type: core.RoomYellowOnly}, state["cf"])
	assert.Equal(t, core.RoomCount{Green: 2, Yellow: 1, Type: core.RoomBoth}, state[core.TotalRoom])
}

func TestRoomCountsUnknownRoom(t *testing.T) {
	ix := registryIndex(t)
	state := ix.InitialRoomState()

	blocks := []core.VictimBlock{
		{BlockType: "block_victim_1", X: 1, Y: 60, Z: 1, RoomName: "Nowhere"},
	}
	assert.ErrorIs(t, RoomCounts(blocks, ix, state), semantic.ErrRoomNameNotFound)
}

func TestSortedOrder(t *testing.T) {
	ix := registryIndex(t)
	r := NewRegistry()
	r.AddFromGroundTruth([]core.VictimBlock{
		{BlockType: "block_victim_1", X: 11, Y: 60, Z: 2, RoomName: "The Computer Farm"},
		{BlockType: "block_victim_1", X: 1, Y: 60, Z: 1, RoomName: "Break Room"},
		{BlockType: "block_victim_1", X: 1, Y: 60, Z: 0, RoomName: "Break Room"},
	}, ix)

	victims := r.Sorted()
	require.Len(t, victims, 3)
	assert.Equal(t, core.VictimID{X: 1, Y: 60, Z: 0}, victims[0].ID)
	assert.Equal(t, core.VictimID{X: 1, Y: 60, Z: 1}, victims[1].ID)
	assert.Equal(t, core.VictimID{X: 11, Y: 60, Z: 2}, victims[2].ID)
}
