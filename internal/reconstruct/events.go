package reconstruct

import (
	"sort"

	"github.com/GallupGovt/ASIST/internal/geo"
	"github.com/GallupGovt/ASIST/internal/ledger"
	"github.com/GallupGovt/ASIST/internal/model/core"
)

// skipAccumulator keeps skipped rooms since the last room-entered event
// in chronological first-trigger order, remembering the latest row each
// room was skipped at.
type skipAccumulator struct {
	order []string
	rows  map[string]int
}

func newSkipAccumulator() *skipAccumulator {
	return &skipAccumulator{rows: make(map[string]int)}
}

func (a *skipAccumulator) add(room string, row int) {
	if _, ok := a.rows[room]; !ok {
		a.order = append(a.order, room)
	}
	a.rows[room] = row
}

// flush drains the accumulator, dropping the room currently entered.
func (a *skipAccumulator) flush(currentRoom string) []core.SkippedRoom {
	out := make([]core.SkippedRoom, 0, len(a.order))
	for _, room := range a.order {
		if room == currentRoom {
			continue
		}
		out = append(out, core.SkippedRoom{ID: room, Row: a.rows[room]})
	}
	a.order = a.order[:0]
	a.rows = make(map[string]int)
	return out
}

// assembleEvents filters the record stream down to the canonical event
// rows, attaching the accumulated visibility and skip context and the
// derived distance and score columns.
func (rc *Reconstructor) assembleEvents(records []core.Record, rows *rowContext, out *Output) {
	nextVictim := backfillNextVictim(records)

	seen := make(map[core.VictimID]bool)
	openings := false
	skips := newSkipAccumulator()

	lastScore := 0
	for i := range records {
		r := &records[i]

		switch {
		case rows.entered[i] != "":
			ev := rc.baseEvent(core.RoomEntered, r, rows, &lastScore)
			ev.ExitedRoomID = rows.exited[i]
			ev.VictimsSeen = sortedVictims(seen)
			ev.OpeningsSeen = openings
			ev.RoomsSkipped = skips.flush(rows.room[i])
			seen = make(map[core.VictimID]bool)
			openings = false
			out.Events = append(out.Events, ev)
			continue

		case r.TriageSuccessful():
			ev := rc.baseEvent(core.VictimTriaged, r, rows, &lastScore)
			ev.VictimColor = r.TriageColor
			if d, ok := nextVictimDistance(r, nextVictim[i]); ok {
				ev.NextVictimDistance = &d
			}
			out.Events = append(out.Events, ev)
			out.Triage = append(out.Triage, ledger.TriageMark{
				Row:   i,
				Room:  rows.room[i],
				Color: r.TriageColor,
			})
			continue
		}

		// Non-event rows feed the accumulators.
		for _, id := range rows.victimsInView[i] {
			seen[id] = true
		}
		if rows.openingInView[i] {
			openings = true
		}
		if rows.skipped[i] != "" {
			skips.add(rows.skipped[i], i)
		}
	}
}

// baseEvent populates the fields shared by both event kinds.
func (rc *Reconstructor) baseEvent(kind core.EventKind, r *core.Record, rows *rowContext, lastScore *int) core.CanonicalEvent {
	i := r.Index
	ev := core.CanonicalEvent{
		Kind:       kind,
		Row:        i,
		RoomID:     rows.room[i],
		RoomName:   rc.ix.RoomName(rows.room[i]),
		LastRoomID: rows.last[i],
		NextRoomID: rows.next[i],
	}
	if rows.sanity[i] != "" {
		ev.SanityRoomName = rc.ix.RoomName(rows.sanity[i])
	}
	if r.SecondsRemaining != nil {
		ev.SecondsRemaining = *r.SecondsRemaining
	} else {
		ev.SecondsRemaining = rc.missionSeconds
	}
	if r.HasPosition() {
		ev.Position = core.Position3D{X: *r.X, Y: *r.Y, Z: *r.Z}
	}
	if r.Score != nil {
		*lastScore = *r.Score
	}
	ev.Score = *lastScore
	return ev
}

// backfillNextVictim walks the stream in reverse, filling each row with
// the coordinates of the chronologically next victim to be triaged.
func backfillNextVictim(records []core.Record) []*core.VictimID {
	out := make([]*core.VictimID, len(records))
	var next *core.VictimID
	for i := len(records) - 1; i >= 0; i-- {
		r := &records[i]
		if r.VictimX != nil && r.VictimY != nil && r.VictimZ != nil {
			next = &core.VictimID{X: *r.VictimX, Y: *r.VictimY, Z: *r.VictimZ}
		}
		out[i] = next
	}
	return out
}

func nextVictimDistance(r *core.Record, next *core.VictimID) (float64, bool) {
	if next == nil || !r.HasPosition() {
		return 0, false
	}
	d := geo.Distance3D(
		core.Position3D{X: *r.X, Y: *r.Y, Z: *r.Z},
		core.Position3D{X: float64(next.X), Y: float64(next.Y), Z: float64(next.Z)},
	)
	return d, true
}

func sortedVictims(set map[core.VictimID]bool) []core.VictimID {
	out := make([]core.VictimID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
