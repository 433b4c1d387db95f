// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/GallupGovt/ASIST/internal/model"
	"github.com/GallupGovt/ASIST/internal/model/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// position3DToPoint converts a core.Position3D to a geom.Point. A
// position carrying NaN or Inf maps to the empty point.
func position3DToPoint(p core.Position3D) geom.Point {
	coords := geom.Coordinates{XY: geom.XY{X: p.X, Y: p.Y}, Z: p.Z, Type: geom.DimXYZ}
	pt, err := geom.NewPoint(coords)
	if err != nil {
		return geom.Point{}
	}
	return pt
}

// toJSON marshals v to datatypes.JSON, falling back to the given
// empty literal when v is nil or marshaling fails.
func toJSON(v any, empty string) datatypes.JSON {
	if v == nil {
		return datatypes.JSON(empty)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON(empty)
	}
	return datatypes.JSON(data)
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// CoreToTrial converts a core.TrialResult to a GORM model.Trial,
// including its event rows.
func CoreToTrial(r *core.TrialResult) model.Trial {
	t := model.Trial{
		MemberID:   r.MemberID,
		SubjectID:  r.SubjectID,
		TrialID:    r.TrialID,
		Complexity: string(r.Complexity),
		Training:   r.Training,
		StartTime:  time.Now(),

		FinalScore:      r.FinalScore,
		CompetencyScore: nullFloat(r.CompetencyScore),

		Workload:             nullInt(r.Workload),
		OrigVictimStrategy:   string(r.OrigVictimStrategy),
		OrigNavStrategy:      string(r.OrigNavStrategy),
		VideogameExperience:  nullInt(r.VideogameExperience),
		SatisficingQ7Average: nullFloat(r.SatisficingQ7Average),
		SatisficingQ8Average: nullFloat(r.SatisficingQ8Average),
		Q239:                 nullFloat(r.Q239),

		VictimStrategyData: toJSON(r.VictimStrategyData, "{}"),
		NavStrategyData:    toJSON(r.NavStrategyData, "{}"),
	}

	t.Events = make([]model.TrialEvent, 0, len(r.Events))
	for _, ev := range r.Events {
		t.Events = append(t.Events, CoreToTrialEvent(ev))
	}
	return t
}

// CoreToTrialEvent converts a core.CanonicalEvent to a GORM model.TrialEvent.
// The TrialID foreign key is filled in by GORM when saved through the parent.
func CoreToTrialEvent(ev core.CanonicalEvent) model.TrialEvent {
	e := model.TrialEvent{
		Kind:             string(ev.Kind),
		Row:              ev.Row,
		SecondsRemaining: ev.SecondsRemaining,

		RoomID:         ev.RoomID,
		RoomName:       ev.RoomName,
		LastRoomID:     ev.LastRoomID,
		NextRoomID:     ev.NextRoomID,
		SanityRoomName: ev.SanityRoomName,

		Position: position3DToPoint(ev.Position),
		Score:    ev.Score,

		YellowInCurrentRoom: ev.YellowInCurrentRoom,
		GreenInCurrentRoom:  ev.GreenInCurrentRoom,
		GreenSearchTime:     nullFloat(ev.GreenSearchTime),
		YellowSearchTime:    nullFloat(ev.YellowSearchTime),

		ExitedRoomID:      ev.ExitedRoomID,
		RoomType:          int(ev.RoomType),
		RoomsSkipped:      toJSON(ev.RoomsSkipped, "[]"),
		VictimsSeen:       toJSON(ev.VictimsSeen, "[]"),
		OpeningsSeen:      ev.OpeningsSeen,
		LeftBehindGreen:   ev.LeftBehindGreen,
		LeftBehindYellow:  ev.LeftBehindYellow,
		RoomsEnteredEmpty: ev.RoomsEnteredEmpty,
		RoomsEnteredFull:  ev.RoomsEnteredFull,
		PriorConsistent:   ev.PriorConsistent,
		PriorInconsistent: ev.PriorInconsistent,
		NavStrategy:       string(ev.NavigationStrategy),

		VictimColor:          string(ev.VictimColor),
		VictimStrategy:       string(ev.VictimStrategy),
		NextVictimDistance:   nullFloat(ev.NextVictimDistance),
		TotalYellowRemaining: ev.TotalYellowRemaining,
		YellowPerMinute:      nullFloat(ev.YellowPerMinute),
		GreenPerMinute:       nullFloat(ev.GreenPerMinute),
		ExpectedGreenRate:    nullFloat(ev.ExpectedGreenRate),
	}
	if ev.ExitedRoomType != nil {
		e.ExitedRoomType = sql.NullInt64{Int64: int64(*ev.ExitedRoomType), Valid: true}
	}
	return e
}

// CoreToTrialError converts a core.TrialError to a GORM model.TrialErrorRecord.
func CoreToTrialError(te core.TrialError) model.TrialErrorRecord {
	return model.TrialErrorRecord{
		MemberID: te.MemberID,
		TrialID:  te.TrialID,
		File:     te.File,
		Reason:   te.Reason,
	}
}
