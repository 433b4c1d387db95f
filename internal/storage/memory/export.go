package memory

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/GallupGovt/ASIST/internal/model/core"
)

// strategyColumns is the fixed flattening order for per-strategy stats
// in the combined scalar CSV.
var strategyColumns = []core.Strategy{
	core.YellowFirst,
	core.GreenFirst,
	core.Sequential,
	core.Mixed,
	core.AvoidEmpty,
}

// exportDataCSV writes one row of scalar results per trial. Callers
// hold the lock.
func (b *Backend) exportDataCSV() error {
	path := filepath.Join(b.cfg.ExportDir, "results_data.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"member_id", "subject_id", "trial_id", "complexity", "training",
		"competency_score", "final_score", "videogame_experience",
		"q7_average", "q8_average", "q239", "workload",
		"original_victim_strategy", "original_nav_strategy",
	}
	for _, s := range strategyColumns {
		header = append(header,
			"victim_strategy_data."+string(s)+".time_spent",
			"victim_strategy_data."+string(s)+".score",
			"victim_strategy_data."+string(s)+".points_per_minute",
		)
	}
	for _, s := range strategyColumns {
		header = append(header,
			"navigation_strategy_data."+string(s)+".time_spent",
			"navigation_strategy_data."+string(s)+".score",
			"navigation_strategy_data."+string(s)+".points_per_minute",
		)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range b.results {
		row := []string{
			r.MemberID, r.SubjectID, r.TrialID, string(r.Complexity), r.Training,
			floatCell(r.CompetencyScore),
			strconv.Itoa(r.FinalScore),
			intCell(r.VideogameExperience),
			floatCell(r.SatisficingQ7Average),
			floatCell(r.SatisficingQ8Average),
			floatCell(r.Q239),
			intCell(r.Workload),
			string(r.OrigVictimStrategy),
			string(r.OrigNavStrategy),
		}
		row = append(row, strategyCells(r.VictimStrategyData)...)
		row = append(row, strategyCells(r.NavStrategyData)...)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	b.exported = append(b.exported, path)
	return nil
}

// exportEventsCSV writes every canonical event of every trial, trial
// and member ids first. Callers hold the lock.
func (b *Backend) exportEventsCSV() error {
	path := filepath.Join(b.cfg.ExportDir, "results_events.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"trial_id", "member_id",
		"event", "event_index_number", "seconds_remaining",
		"room_id", "room_name", "sanity_room_name_actual",
		"last_room_id", "next_room_id", "score",
		"yellow_victims_in_current_room", "green_victims_in_current_room",
		"green_search_time", "yellow_search_time",
		"nav_strategy", "room_type", "exited_room_id", "exited_room_type",
		"rooms_skipped", "victims_seen", "openings_seen",
		"left_behind_green", "left_behind_yellow",
		"rooms_entered_empty", "rooms_entered_not_empty",
		"prior_use_consistent", "prior_use_inconsistent",
		"victim_strategy", "victim_color", "next_victim_distance",
		"total_yellow_victims_remaining",
		"yellow_per_minute", "green_per_minute", "expected_green_rate",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range b.results {
		for i := range r.Events {
			row, err := eventRow(r, &r.Events[i])
			if err != nil {
				return err
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	b.exported = append(b.exported, path)
	return nil
}

func eventRow(r *core.TrialResult, ev *core.CanonicalEvent) ([]string, error) {
	row := []string{
		r.TrialID, r.MemberID,
		string(ev.Kind),
		strconv.Itoa(ev.Row),
		formatFloat(ev.SecondsRemaining),
		ev.RoomID, ev.RoomName, ev.SanityRoomName,
		ev.LastRoomID, ev.NextRoomID,
		strconv.Itoa(ev.Score),
		strconv.Itoa(ev.YellowInCurrentRoom),
		strconv.Itoa(ev.GreenInCurrentRoom),
		floatCell(ev.GreenSearchTime),
		floatCell(ev.YellowSearchTime),
	}

	switch ev.Kind {
	case core.RoomEntered:
		skipped, err := json.Marshal(ev.RoomsSkipped)
		if err != nil {
			return nil, err
		}
		seen, err := json.Marshal(ev.VictimsSeen)
		if err != nil {
			return nil, err
		}
		exitedType := ""
		if ev.ExitedRoomType != nil {
			exitedType = strconv.Itoa(int(*ev.ExitedRoomType))
		}
		row = append(row,
			string(ev.NavigationStrategy),
			strconv.Itoa(int(ev.RoomType)),
			ev.ExitedRoomID,
			exitedType,
			string(skipped),
			string(seen),
			strconv.FormatBool(ev.OpeningsSeen),
			strconv.Itoa(ev.LeftBehindGreen),
			strconv.Itoa(ev.LeftBehindYellow),
			strconv.Itoa(ev.RoomsEnteredEmpty),
			strconv.Itoa(ev.RoomsEnteredFull),
			strconv.Itoa(ev.PriorConsistent),
			strconv.Itoa(ev.PriorInconsistent),
			"", "", "", "", "", "", "",
		)
	case core.VictimTriaged:
		row = append(row,
			"", "", "", "", "", "", "", "", "", "", "", "", "",
			string(ev.VictimStrategy),
			string(ev.VictimColor),
			floatCell(ev.NextVictimDistance),
			strconv.Itoa(ev.TotalYellowRemaining),
			floatCell(ev.YellowPerMinute),
			floatCell(ev.GreenPerMinute),
			floatCell(ev.ExpectedGreenRate),
		)
	}
	return row, nil
}

func strategyCells(data core.StrategyData) []string {
	cells := make([]string, 0, len(strategyColumns)*3)
	for _, s := range strategyColumns {
		st, ok := data[s]
		if !ok {
			cells = append(cells, "", "", "")
			continue
		}
		cells = append(cells,
			formatFloat(st.TimeSpent),
			strconv.Itoa(st.Score),
			floatCell(st.PointsPerMinute),
		)
	}
	return cells
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func intCell(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
