package semantic

import (
	"strings"
	"testing"

	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMap = `{
	"locations": [
		{"id": "ew", "name": "East Wing", "type": "region", "child_locations": ["ew1", "ew2"]},
		{"id": "ew1", "name": "East Wing Part 1", "type": "room_part",
			"bounds": {"coordinates": [{"x": 0, "z": 0}, {"x": 3, "z": 3}]}},
		{"id": "ew2", "name": "East Wing Part 2", "type": "room_part",
			"bounds": {"coordinates": [{"x": 4, "z": 0}, {"x": 6, "z": 3}]}},
		{"id": "br", "name": "Break Room", "type": "room",
			"bounds": {"coordinates": [{"x": 10, "z": 0}, {"x": 12, "z": 2}]}},
		{"id": "rh", "name": "Right Hallway", "type": "hallway",
			"bounds": {"coordinates": [{"x": 20, "z": 0}, {"x": 25, "z": 1}]}}
	]
}`

const testTriggers = `RoomName,LocationXYZ
East Wing,1 60 1
Open Break Area,11 60 1
Right Hallway,21 60 0
`

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := BuildIndex(strings.NewReader(testMap), strings.NewReader(testTriggers))
	require.NoError(t, err)
	return ix
}

func TestResolveRoomCollapsesParents(t *testing.T) {
	ix := buildTestIndex(t)

	room, ok := ix.ResolveRoom(1, 2)
	assert.True(t, ok)
	assert.Equal(t, "ew", room)

	room, ok = ix.ResolveRoom(5, 0)
	assert.True(t, ok)
	assert.Equal(t, "ew", room)

	room, ok = ix.ResolveRoom(11, 1)
	assert.True(t, ok)
	assert.Equal(t, "br", room)

	_, ok = ix.ResolveRoom(100, 100)
	assert.False(t, ok)
}

func TestResolveRoomOverlapDeterministic(t *testing.T) {
	// Two rectangles sharing cells must resolve the shared cells the
	// same way on every build.
	overlapMap := `{
		"locations": [
			{"id": "ra", "name": "Room A", "type": "room",
				"bounds": {"coordinates": [{"x": 0, "z": 0}, {"x": 10, "z": 10}]}},
			{"id": "rb", "name": "Room B", "type": "room",
				"bounds": {"coordinates": [{"x": 5, "z": 5}, {"x": 15, "z": 15}]}}
		]
	}`
	triggers := "RoomName,LocationXYZ\n"

	for i := 0; i < 50; i++ {
		ix, err := BuildIndex(strings.NewReader(overlapMap), strings.NewReader(triggers))
		require.NoError(t, err)

		room, ok := ix.ResolveRoom(5, 5)
		require.True(t, ok)
		assert.Equal(t, "rb", room, "build %d", i)

		room, ok = ix.ResolveRoom(3, 3)
		require.True(t, ok)
		assert.Equal(t, "ra", room, "build %d", i)
	}
}

func TestResolveParent(t *testing.T) {
	ix := buildTestIndex(t)

	assert.Equal(t, "ew", ix.ResolveParent("ew1"))
	assert.Equal(t, "ew", ix.ResolveParent("ew"))
	assert.Equal(t, "br", ix.ResolveParent("br"))
}

func TestResolveTriggerCornerProbe(t *testing.T) {
	ix := buildTestIndex(t)

	// trigger cell sits at (11,1); all four corner probes of a nearby
	// fractional position must find it
	room, ok := ix.ResolveTrigger(10.6, 0.7)
	assert.True(t, ok)
	assert.Equal(t, "br", room)

	room, ok = ix.ResolveTrigger(11.0, 1.0)
	assert.True(t, ok)
	assert.Equal(t, "br", room)

	_, ok = ix.ResolveTrigger(50.0, 50.0)
	assert.False(t, ok)
}

func TestRightHallwayTriggerExcluded(t *testing.T) {
	ix := buildTestIndex(t)

	assert.False(t, ix.IsTriggerRoom("rh"))
	_, ok := ix.ResolveTrigger(21.0, 0.0)
	assert.False(t, ok)

	// the exclusion leaves the other trigger rooms intact
	assert.Equal(t, []string{"br", "ew"}, ix.TriggerRooms())
}

func TestRoomIDByNameNormalized(t *testing.T) {
	ix := buildTestIndex(t)

	id, ok := ix.RoomIDByName("Break Room")
	assert.True(t, ok)
	assert.Equal(t, "br", id)

	_, ok = ix.RoomIDByName("No Such Room")
	assert.False(t, ok)
}

func TestSanityRooms(t *testing.T) {
	ix := buildTestIndex(t)

	// names from the trigger table, alias-normalized
	assert.True(t, ix.IsSanityRoom("East Wing"))
	assert.True(t, ix.IsSanityRoom("Break Room"))
	assert.False(t, ix.IsSanityRoom("Open Break Area"))
}

func TestInitialRoomState(t *testing.T) {
	ix := buildTestIndex(t)
	state := ix.InitialRoomState()

	// children collapse onto their parent; the total aggregate exists
	assert.Contains(t, state, "ew")
	assert.Contains(t, state, "br")
	assert.NotContains(t, state, "ew1")
	assert.Equal(t, core.RoomCount{Type: core.RoomBoth}, state[core.TotalRoom])

	for id, c := range state {
		if id == core.TotalRoom {
			continue
		}
		assert.Equal(t, core.RoomCount{Green: 0, Yellow: 0, Type: core.RoomEmpty}, c, "room %s", id)
	}
}

func TestBuildIndexRejectsMalformedTriggers(t *testing.T) {
	bad := "RoomName,LocationXYZ\nEast Wing,1 60\n"
	_, err := BuildIndex(strings.NewReader(testMap), strings.NewReader(bad))
	assert.Error(t, err)
}
