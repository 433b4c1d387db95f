// Package convert provides functions to convert GORM models to core models
package convert

import (
	"database/sql"
	"encoding/json"

	"github.com/GallupGovt/ASIST/internal/model"
	"github.com/GallupGovt/ASIST/internal/model/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// pointToPosition3D converts a geom.Point to a core.Position3D
func pointToPosition3D(p geom.Point) core.Position3D {
	coord, ok := p.Coordinates()
	if !ok {
		return core.Position3D{}
	}
	return core.Position3D{X: coord.XY.X, Y: coord.XY.Y, Z: coord.Z}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func intPtr(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}

// TrialToCore converts a GORM model.Trial back to a core.TrialResult.
// Event rows must have been preloaded for Events to be populated.
func TrialToCore(t model.Trial) *core.TrialResult {
	r := &core.TrialResult{
		TrialInfo: core.TrialInfo{
			MemberID:   t.MemberID,
			SubjectID:  t.SubjectID,
			TrialID:    t.TrialID,
			Complexity: core.Difficulty(t.Complexity),
			Training:   t.Training,
		},
		SurveyScores: core.SurveyScores{
			Workload:             intPtr(t.Workload),
			OrigVictimStrategy:   core.Strategy(t.OrigVictimStrategy),
			OrigNavStrategy:      core.Strategy(t.OrigNavStrategy),
			VideogameExperience:  intPtr(t.VideogameExperience),
			SatisficingQ7Average: floatPtr(t.SatisficingQ7Average),
			SatisficingQ8Average: floatPtr(t.SatisficingQ8Average),
			Q239:                 floatPtr(t.Q239),
		},
		CompetencyScore: floatPtr(t.CompetencyScore),
		FinalScore:      t.FinalScore,
	}

	_ = json.Unmarshal(t.VictimStrategyData, &r.VictimStrategyData)
	_ = json.Unmarshal(t.NavStrategyData, &r.NavStrategyData)

	r.Events = make([]core.CanonicalEvent, 0, len(t.Events))
	for _, e := range t.Events {
		r.Events = append(r.Events, TrialEventToCore(e))
	}
	return r
}

// TrialEventToCore converts a GORM model.TrialEvent to a core.CanonicalEvent.
func TrialEventToCore(e model.TrialEvent) core.CanonicalEvent {
	ev := core.CanonicalEvent{
		Kind:             core.EventKind(e.Kind),
		Row:              e.Row,
		SecondsRemaining: e.SecondsRemaining,

		RoomID:         e.RoomID,
		RoomName:       e.RoomName,
		LastRoomID:     e.LastRoomID,
		NextRoomID:     e.NextRoomID,
		SanityRoomName: e.SanityRoomName,

		Position: pointToPosition3D(e.Position),
		Score:    e.Score,

		YellowInCurrentRoom: e.YellowInCurrentRoom,
		GreenInCurrentRoom:  e.GreenInCurrentRoom,
		GreenSearchTime:     floatPtr(e.GreenSearchTime),
		YellowSearchTime:    floatPtr(e.YellowSearchTime),

		ExitedRoomID:      e.ExitedRoomID,
		RoomType:          core.RoomType(e.RoomType),
		OpeningsSeen:      e.OpeningsSeen,
		LeftBehindGreen:   e.LeftBehindGreen,
		LeftBehindYellow:  e.LeftBehindYellow,
		RoomsEnteredEmpty: e.RoomsEnteredEmpty,
		RoomsEnteredFull:  e.RoomsEnteredFull,
		PriorConsistent:   e.PriorConsistent,
		PriorInconsistent: e.PriorInconsistent,

		NavigationStrategy:   core.Strategy(e.NavStrategy),
		VictimColor:          core.VictimColor(e.VictimColor),
		VictimStrategy:       core.Strategy(e.VictimStrategy),
		NextVictimDistance:   floatPtr(e.NextVictimDistance),
		TotalYellowRemaining: e.TotalYellowRemaining,
		YellowPerMinute:      floatPtr(e.YellowPerMinute),
		GreenPerMinute:       floatPtr(e.GreenPerMinute),
		ExpectedGreenRate:    floatPtr(e.ExpectedGreenRate),
	}
	if e.ExitedRoomType.Valid {
		rt := core.RoomType(e.ExitedRoomType.Int64)
		ev.ExitedRoomType = &rt
	}
	_ = json.Unmarshal(e.RoomsSkipped, &ev.RoomsSkipped)
	_ = json.Unmarshal(e.VictimsSeen, &ev.VictimsSeen)
	return ev
}
