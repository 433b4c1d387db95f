// Package ledger tracks remaining victims per room over the course of a
// trial. It supports point-in-time queries against historical rows, which
// skip classification depends on, as well as a cumulative rolling replay.
package ledger

import (
	"errors"
	"math"

	"github.com/GallupGovt/ASIST/internal/model/core"
)

// ErrNoSnapshotForRow indicates a query for a row no interval covers.
// The snapshot list covers every row by construction, so this is a bug.
var ErrNoSnapshotForRow = errors.New("no room state snapshot covers row")

// TriageMark is one successful triage replayed into the ledger.
type TriageMark struct {
	Row   int
	Room  string
	Color core.VictimColor
}

// Snapshot is one interval of the time-indexed state list. State is a
// structural copy, never aliased with other snapshots.
type Snapshot struct {
	RowBegin int
	RowEnd   int
	State    core.RoomState
}

// Ledger is the immutable snapshot list built from the triage sequence.
type Ledger struct {
	snapshots []Snapshot
	expireRow int
}

// Build replays the triage marks in row order and materializes the
// interval list. An interval straddling the expire row is split in two,
// with all yellow counts zeroed from the expire row onward.
func Build(initial core.RoomState, expireRow int, triage []TriageMark) *Ledger {
	l := &Ledger{expireRow: expireRow}
	cur := initial.Clone()
	expired := false

	emit := func(begin, end int) {
		if end < begin {
			return
		}
		if !expired && expireRow <= begin {
			cur.ExpireYellows()
			expired = true
		}
		if !expired && begin < expireRow && expireRow <= end {
			l.snapshots = append(l.snapshots, Snapshot{begin, expireRow - 1, cur.Clone()})
			cur.ExpireYellows()
			expired = true
			l.snapshots = append(l.snapshots, Snapshot{expireRow, end, cur.Clone()})
			return
		}
		l.snapshots = append(l.snapshots, Snapshot{begin, end, cur.Clone()})
	}

	begin := 0
	for _, t := range triage {
		emit(begin, t.Row-1)
		if !expired && t.Row >= expireRow {
			cur.ExpireYellows()
			expired = true
		}
		applyTriage(cur, t)
		begin = t.Row
	}
	emit(begin, math.MaxInt)
	return l
}

// StateAt returns the room state as of the given row. The returned map
// is the snapshot's own copy; callers must not mutate it.
func (l *Ledger) StateAt(row int) (core.RoomState, error) {
	for _, s := range l.snapshots {
		if s.RowBegin <= row && row <= s.RowEnd {
			return s.State, nil
		}
	}
	return nil, ErrNoSnapshotForRow
}

// Snapshots exposes the interval list for inspection.
func (l *Ledger) Snapshots() []Snapshot {
	return l.snapshots
}

func applyTriage(state core.RoomState, t TriageMark) {
	c := state[t.Room]
	switch t.Color {
	case core.Yellow:
		if c.Yellow > 0 {
			c.Yellow--
		}
	case core.Green:
		if c.Green > 0 {
			c.Green--
		}
	}
	state[t.Room] = c
	state.UpdateTypes()
}

// Rolling replays the same triage sequence cumulatively. The
// reconstructor uses it for the per-event current-room counts; it must
// agree with StateAt at every row.
type Rolling struct {
	state     core.RoomState
	triage    []TriageMark
	next      int
	expireRow int
	expired   bool
}

// NewRolling creates a rolling replay from the same inputs as Build.
func NewRolling(initial core.RoomState, expireRow int, triage []TriageMark) *Rolling {
	return &Rolling{
		state:     initial.Clone(),
		triage:    triage,
		expireRow: expireRow,
	}
}

// At advances the replay to the given row and returns the live state.
// Rows must be queried in non-decreasing order. Callers must not retain
// or mutate the returned map.
func (r *Rolling) At(row int) core.RoomState {
	for r.next < len(r.triage) && r.triage[r.next].Row <= row {
		t := r.triage[r.next]
		if !r.expired && t.Row >= r.expireRow {
			r.state.ExpireYellows()
			r.expired = true
		}
		applyTriage(r.state, t)
		r.next++
	}
	if !r.expired && row >= r.expireRow {
		r.state.ExpireYellows()
		r.expired = true
	}
	return r.state
}
