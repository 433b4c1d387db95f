// Package reconstruct implements the forward pass over the normalized
// record stream, deriving the canonical RoomEntered/VictimTriaged event
// stream with room transitions, skip detection, visibility accumulation,
// and room-state annotations.
package reconstruct

import (
	"errors"
	"log/slog"
	"math"

	"github.com/GallupGovt/ASIST/internal/geo"
	"github.com/GallupGovt/ASIST/internal/ledger"
	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/GallupGovt/ASIST/internal/semantic"
	"github.com/GallupGovt/ASIST/internal/victim"
)

// ErrNoRoomEntered marks a trial whose player never entered a trigger
// room. The data is unusable; the trial is skipped.
var ErrNoRoomEntered = errors.New("no record of any room being entered by the player")

// ErrLocationUnresolved marks a trial whose location stream could not be
// reconciled with a successful triage.
var ErrLocationUnresolved = errors.New("location data could not be resolved")

// Reconstructor holds the per-trial static structures. It is not shared
// between trials.
type Reconstructor struct {
	logger         *slog.Logger
	ix             *semantic.Index
	reg            *victim.Registry
	missionSeconds float64
}

// Output is the reconstructed event stream plus the artifacts later
// stages need.
type Output struct {
	Events    []core.CanonicalEvent
	Triage    []ledger.TriageMark
	ExpireRow int
	Ledger    *ledger.Ledger

	// Initial victim totals, used for rate calculations.
	TotalGreen  int
	TotalYellow int

	Trajectory *geo.Trajectory
}

// New creates a reconstructor over the given static structures.
func New(logger *slog.Logger, ix *semantic.Index, reg *victim.Registry, missionSeconds float64) *Reconstructor {
	return &Reconstructor{
		logger:         logger,
		ix:             ix,
		reg:            reg,
		missionSeconds: missionSeconds,
	}
}

// Run executes the full reconstruction over the normalized records.
// The initial room state seeds the ledger and is not mutated.
func (rc *Reconstructor) Run(records []core.Record, initial core.RoomState) (*Output, error) {
	if err := rc.correctTriageLocations(records); err != nil {
		return nil, err
	}

	rows, err := rc.deriveRoomContext(records)
	if err != nil {
		return nil, err
	}
	rc.deriveTriggers(records, rows)
	rc.deriveVisibility(records, rows)

	out := &Output{
		ExpireRow:   expireRow(records),
		TotalGreen:  initial[core.TotalRoom].Green,
		TotalYellow: initial[core.TotalRoom].Yellow,
		Trajectory:  rows.trajectory,
	}
	if out.ExpireRow == math.MaxInt {
		rc.logger.Warn("No yellow expiry marker in trial, yellows never expire")
	}
	if !rows.sawBeep {
		rc.logger.Warn("No beep events in trial, proximity skips may be incomplete")
	}

	rc.assembleEvents(records, rows, out)

	out.Ledger = ledger.Build(initial, out.ExpireRow, out.Triage)
	if err := rc.annotate(out, initial); err != nil {
		return nil, err
	}
	return out, nil
}

// correctTriageLocations fixes the known simulator bug where a triage
// lands while the location stream still reports a stale or missing
// room. The victim's registry room is written back onto the last known
// misfire row so the transition pass sees it in order.
func (rc *Reconstructor) correctTriageLocations(records []core.Record) error {
	lastMisfire := -1
	room := ""
	for i := range records {
		r := &records[i]
		switch {
		case r.Topic == core.TopicLocation && r.LocationID != "":
			room = r.LocationID
			if room == "UNKNOWN" {
				room = ""
			}
		case r.Topic == core.TopicLocation && r.Misfire:
			lastMisfire = i
		case r.TriageSuccessful():
			if r.VictimX == nil || r.VictimY == nil || r.VictimZ == nil {
				return ErrLocationUnresolved
			}
			id := core.VictimID{X: *r.VictimX, Y: *r.VictimY, Z: *r.VictimZ}
			v, ok := rc.reg.Get(id)
			if !ok {
				return ErrLocationUnresolved
			}
			if room != v.Room {
				if lastMisfire < 0 {
					return ErrLocationUnresolved
				}
				records[lastMisfire].LocationID = v.Room
				records[lastMisfire].Misfire = false
			}
		}
	}
	return nil
}

// expireRow finds the first row carrying the yellow expiry marker, or
// MaxInt when the trial has none.
func expireRow(records []core.Record) int {
	for i := range records {
		if records[i].ExpiredMessage != "" {
			return i
		}
	}
	return math.MaxInt
}
