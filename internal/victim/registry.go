// Package victim maintains the per-trial victim registry built from the
// ground-truth victim list.
package victim

import (
	"sort"

	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/GallupGovt/ASIST/internal/semantic"
	"github.com/GallupGovt/ASIST/internal/util"
)

// Registry maps victim ids to their color and room. Built once per
// trial; the only later mutation is the write-once first-seen stamp.
type Registry struct {
	victims map[core.VictimID]*core.Victim
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{victims: make(map[core.VictimID]*core.Victim)}
}

// AddFromGroundTruth registers every victim block of a ground-truth
// list. Duplicate ids keep their first occurrence. Non-victim blocks are
// ignored.
func (r *Registry) AddFromGroundTruth(blocks []core.VictimBlock, ix *semantic.Index) {
	for _, b := range blocks {
		color, ok := core.BlockColor(b.BlockType)
		if !ok {
			continue
		}
		id := core.VictimID{X: b.X, Y: b.Y, Z: b.Z}
		if _, exists := r.victims[id]; exists {
			continue
		}
		room, _ := ix.ResolveRoom(b.X, b.Z)
		r.victims[id] = &core.Victim{ID: id, Color: color, Room: room}
	}
}

// Get returns the victim for an id.
func (r *Registry) Get(id core.VictimID) (*core.Victim, bool) {
	v, ok := r.victims[id]
	return v, ok
}

// Len returns the number of registered victims.
func (r *Registry) Len() int {
	return len(r.victims)
}

// MarkFirstSeen stamps a victim's first field-of-view sighting. First
// write wins; later sightings are no-ops. Unknown ids are ignored.
func (r *Registry) MarkFirstSeen(id core.VictimID, secondsRemaining float64) {
	v, ok := r.victims[id]
	if !ok || v.FirstSeen != nil {
		return
	}
	sr := secondsRemaining
	v.FirstSeen = &sr
}

// RoomCounts seeds the initial RoomState with per-room victim counts on
// top of the zeroed state from the semantic index. Room names come from
// the ground-truth list, not the registry's resolved coordinates, so
// counts survive victims placed marginally outside their room bounds.
func RoomCounts(blocks []core.VictimBlock, ix *semantic.Index, state core.RoomState) error {
	seen := make(map[core.VictimID]bool)
	for _, b := range blocks {
		color, ok := core.BlockColor(b.BlockType)
		if !ok {
			continue
		}
		id := core.VictimID{X: b.X, Y: b.Y, Z: b.Z}
		if seen[id] {
			continue
		}
		seen[id] = true

		roomID, ok := roomIDForName(b.RoomName, ix)
		if !ok {
			return semantic.ErrRoomNameNotFound
		}
		c := state[roomID]
		if color == core.Green {
			c.Green++
		} else {
			c.Yellow++
		}
		state[roomID] = c
	}
	state.UpdateTypes()
	return nil
}

func roomIDForName(name string, ix *semantic.Index) (string, bool) {
	id, ok := ix.RoomIDByName(util.NormalizeRoomName(name))
	if !ok {
		return "", false
	}
	return ix.ResolveParent(id), true
}

// Sorted returns all victims ordered by id for deterministic iteration.
func (r *Registry) Sorted() []*core.Victim {
	out := make([]*core.Victim, 0, len(r.victims))
	for _, v := range r.victims {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}
