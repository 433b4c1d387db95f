package semantic

import (
	"errors"
	"sort"

	"github.com/GallupGovt/ASIST/internal/geo"
	"github.com/GallupGovt/ASIST/internal/model/core"
)

// ErrRoomNameNotFound is returned when a ground-truth room name has no
// match in the semantic map. This is a data integrity bug, not a
// recoverable condition.
var ErrRoomNameNotFound = errors.New("room name not found in semantic map")

// cellInfo is the payload of one grid cell. Empty strings mean the cell
// belongs to no room / carries no trigger.
type cellInfo struct {
	Room    string
	Trigger string
}

// Index is the per-difficulty spatial lookup. Built once, read-only
// afterward; trials never share an Index so no locking is needed.
type Index struct {
	rooms        map[string]core.Room
	parents      map[string]string
	cells        map[geo.Cell]cellInfo
	triggerRooms map[string]bool
	sanityRooms  map[string]bool
}

func newIndex() *Index {
	return &Index{
		rooms:        make(map[string]core.Room),
		parents:      make(map[string]string),
		cells:        make(map[geo.Cell]cellInfo),
		triggerRooms: make(map[string]bool),
		sanityRooms:  make(map[string]bool),
	}
}

// ResolveParent collapses a child room id to its ultimate parent.
// Resolving a parent id returns itself.
func (ix *Index) ResolveParent(roomID string) string {
	if parent, ok := ix.parents[roomID]; ok {
		return parent
	}
	return roomID
}

// ResolveRoom returns the ultimate parent room containing the integer
// cell, or false when the cell lies outside every room.
func (ix *Index) ResolveRoom(x, z int) (string, bool) {
	cell, ok := ix.cells[geo.Cell{X: x, Z: z}]
	if !ok || cell.Room == "" {
		return "", false
	}
	return cell.Room, true
}

// ResolveTrigger probes the four floor/ceil corner cells around a
// continuous position and returns the first trigger room found, in the
// fixed corner order.
func (ix *Index) ResolveTrigger(x, z float64) (string, bool) {
	for _, c := range geo.CornerCells(x, z) {
		cell, ok := ix.cells[c]
		if ok && cell.Trigger != "" {
			return cell.Trigger, true
		}
	}
	return "", false
}

// IsTriggerRoom reports whether the room has at least one beep trigger
// point. Only entries into trigger rooms become canonical events.
func (ix *Index) IsTriggerRoom(roomID string) bool {
	return ix.triggerRooms[roomID]
}

// TriggerRooms returns the trigger room ids in sorted order.
func (ix *Index) TriggerRooms() []string {
	ids := make([]string, 0, len(ix.triggerRooms))
	for id := range ix.triggerRooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Room returns the room record for an id.
func (ix *Index) Room(roomID string) (core.Room, bool) {
	r, ok := ix.rooms[roomID]
	return r, ok
}

// RoomName returns the display name for a room id, or the id itself
// when unknown.
func (ix *Index) RoomName(roomID string) string {
	if r, ok := ix.rooms[roomID]; ok {
		return r.Name
	}
	return roomID
}

// RoomIDByName finds a room id by its (normalized) display name.
func (ix *Index) RoomIDByName(name string) (string, bool) {
	// Deterministic scan order so duplicate names resolve stably.
	ids := make([]string, 0, len(ix.rooms))
	for id := range ix.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if ix.rooms[id].Name == name {
			return id, true
		}
	}
	return "", false
}

// InitialRoomState builds the zeroed per-room state covering every
// ultimate parent room, ready to be seeded with victim counts.
func (ix *Index) InitialRoomState() core.RoomState {
	state := make(core.RoomState)
	for id := range ix.rooms {
		state[ix.ResolveParent(id)] = core.RoomCount{}
	}
	state.UpdateTypes()
	return state
}

// IsSanityRoom reports whether the name appears in the trigger table,
// used to cross-check triage locations.
func (ix *Index) IsSanityRoom(name string) bool {
	return ix.sanityRooms[name]
}

func (ix *Index) addSanityRoom(name string) {
	ix.sanityRooms[name] = true
}

func (ix *Index) removeTriggerRoom(roomID string) {
	delete(ix.triggerRooms, roomID)
	for key, cell := range ix.cells {
		if cell.Trigger == roomID {
			cell.Trigger = ""
			ix.cells[key] = cell
		}
	}
}
