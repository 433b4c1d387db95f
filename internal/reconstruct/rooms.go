package reconstruct

import (
	"github.com/GallupGovt/ASIST/internal/geo"
	"github.com/GallupGovt/ASIST/internal/model/core"
)

// rowContext holds the per-row derived columns of the forward pass.
// Empty strings mean "no value"; filled columns are forward filled so
// any row can be queried.
type rowContext struct {
	entered []string // room entered at this row (event marker)
	exited  []string // room exited at this row (event marker)
	room    []string // current room, forward filled
	last    []string // previous room, forward filled
	next    []string // upcoming room, back filled onto the prior marker then forward filled
	sanity  []string // raw location resolved to parent, forward filled

	trigger []string // trigger room stepped on at this row
	skipped []string // room classified as skipped at this row

	victimsInView [][]core.VictimID
	openingInView []bool

	trajectory *geo.Trajectory
	sawBeep    bool
}

func newRowContext(n int) *rowContext {
	return &rowContext{
		entered:       make([]string, n),
		exited:        make([]string, n),
		room:          make([]string, n),
		last:          make([]string, n),
		next:          make([]string, n),
		sanity:        make([]string, n),
		trigger:       make([]string, n),
		skipped:       make([]string, n),
		victimsInView: make([][]core.VictimID, n),
		openingInView: make([]bool, n),
		trajectory:    &geo.Trajectory{},
	}
}

// deriveRoomContext walks the location stream and produces the room
// transition markers plus the filled room/last/next columns. Entries
// into non-trigger rooms are traversed silently.
func (rc *Reconstructor) deriveRoomContext(records []core.Record) (*rowContext, error) {
	rows := newRowContext(len(records))

	lastRoom := ""
	lastEventRow := -1
	entered := false
	for i := range records {
		r := &records[i]
		if r.LocationID == "" || r.LocationID == "UNKNOWN" {
			continue
		}
		loc := rc.ix.ResolveParent(r.LocationID)
		rows.sanity[i] = loc
		if loc == lastRoom {
			continue
		}
		if !rc.ix.IsTriggerRoom(loc) {
			continue
		}
		entered = true
		rows.entered[i] = loc
		rows.exited[i] = lastRoom
		rows.last[i] = lastRoom
		if lastEventRow != -1 {
			rows.next[lastEventRow] = loc
		}
		lastRoom = loc
		lastEventRow = i
	}
	if !entered {
		return nil, ErrNoRoomEntered
	}

	forwardFillStrings(rows.entered, rows.room)
	forwardFillStrings(rows.last, rows.last)
	forwardFillStrings(rows.next, rows.next)
	forwardFillStrings(rows.sanity, rows.sanity)
	return rows, nil
}

// deriveTriggers records every moment the player steps onto a beep
// trigger cell, then classifies which of those marks are skips. A
// trigger fires at most once per entry into its zone.
func (rc *Reconstructor) deriveTriggers(records []core.Record, rows *rowContext) {
	lastTrigger := ""
	for i := range records {
		r := &records[i]
		if r.Beeps > 0 {
			rows.sawBeep = true
		}
		if r.X == nil || r.Z == nil {
			continue
		}
		rows.trajectory.Add(*r.X, *r.Z)
		t, ok := rc.ix.ResolveTrigger(*r.X, *r.Z)
		if !ok {
			continue
		}
		if t != lastTrigger {
			rows.trigger[i] = t
			lastTrigger = t
		}
	}

	// A trigger mark is a skip when the triggered room is none of the
	// rooms the player is in, came from, or goes to next.
	for i := range records {
		t := rows.trigger[i]
		if t == "" {
			continue
		}
		if t != rows.room[i] && t != rows.next[i] && t != rows.last[i] && rc.ix.IsTriggerRoom(t) {
			rows.skipped[i] = t
		}
	}
}

// deriveVisibility extracts visible victims and openings from the field
// of view summaries and stamps first sightings on the registry.
func (rc *Reconstructor) deriveVisibility(records []core.Record, rows *rowContext) {
	for i := range records {
		r := &records[i]
		if r.Topic != core.TopicFoVSummary {
			continue
		}
		for _, b := range r.Blocks {
			switch {
			case isVictimBlock(b.Type):
				rows.victimsInView[i] = append(rows.victimsInView[i], b.Location)
				if r.SecondsRemaining != nil {
					rc.reg.MarkFirstSeen(b.Location, *r.SecondsRemaining)
				}
			case b.Type == "perturbation_opening":
				rows.openingInView[i] = true
			}
		}
	}
}

func isVictimBlock(t string) bool {
	return len(t) >= len("block_victim") && t[:len("block_victim")] == "block_victim"
}

// forwardFillStrings fills dst with the last non-empty value of src.
// src and dst may be the same slice.
func forwardFillStrings(src, dst []string) {
	cur := ""
	for i := range src {
		if src[i] != "" {
			cur = src[i]
		}
		dst[i] = cur
	}
}
