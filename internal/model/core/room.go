package core

import "sort"

// TotalRoom is the pseudo room id aggregating victim counts of all rooms.
const TotalRoom = "total"

// Room is one named location of the semantic map. Rooms form a two level
// tree: parents carry Children, leaves carry inclusive integer bounds.
type Room struct {
	ID       string
	Name     string
	Type     string
	Children []string
	X1, X2   int
	Z1, Z2   int
	HasBound bool
}

// RoomCount holds the remaining victims of one room and the room type
// derived from them.
type RoomCount struct {
	Green  int      `json:"green"`
	Yellow int      `json:"yellow"`
	Type   RoomType `json:"type"`
}

// RoomState maps room id to its remaining victim counts. It includes the
// TotalRoom pseudo entry once UpdateTypes has been called.
type RoomState map[string]RoomCount

// Clone returns a structural copy. Snapshots held by the ledger must
// never alias the map of a later state.
func (s RoomState) Clone() RoomState {
	out := make(RoomState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// UpdateTypes recomputes every room's type from its counts and rebuilds
// the TotalRoom aggregate.
func (s RoomState) UpdateTypes() {
	totalG, totalY := 0, 0
	for id, c := range s {
		if id == TotalRoom {
			continue
		}
		c.Type = ClassifyRoom(c.Yellow, c.Green)
		s[id] = c
		totalG += c.Green
		totalY += c.Yellow
	}
	s[TotalRoom] = RoomCount{Green: totalG, Yellow: totalY, Type: RoomBoth}
}

// ExpireYellows zeroes every yellow count and recomputes types. Called
// once when the simulation declares all yellow victims dead.
func (s RoomState) ExpireYellows() {
	for id, c := range s {
		if id == TotalRoom {
			continue
		}
		c.Yellow = 0
		s[id] = c
	}
	s.UpdateTypes()
}

// RoomIDs returns all real room ids in sorted order.
func (s RoomState) RoomIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		if id == TotalRoom {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SkippedRoom records one room the player beeped but never entered,
// typed as of the moment of the skip.
type SkippedRoom struct {
	ID   string   `json:"id"`
	Row  int      `json:"index"`
	Type RoomType `json:"type"`
}
