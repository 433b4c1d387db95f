package memory

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/GallupGovt/ASIST/internal/config"
	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() *core.TrialResult {
	ppm := 12.0
	dist := 2.5
	return &core.TrialResult{
		TrialInfo: core.TrialInfo{
			MemberID:   "51",
			SubjectID:  "P000051",
			TrialID:    "000123",
			Complexity: core.Medium,
			Training:   "TriageSignal StaticMap",
		},
		SurveyScores: core.SurveyScores{
			OrigVictimStrategy: core.YellowFirst,
			OrigNavStrategy:    core.Sequential,
		},
		FinalScore: 140,
		VictimStrategyData: core.StrategyData{
			core.YellowFirst: {TimeSpent: 120, Score: 24, PointsPerMinute: &ppm},
		},
		NavStrategyData: core.StrategyData{
			core.Sequential: {TimeSpent: 300, Score: 140},
		},
		Events: []core.CanonicalEvent{
			{
				Kind: core.RoomEntered, Row: 4, SecondsRemaining: 580,
				RoomID: "ra", RoomName: "Room A",
				NavigationStrategy: core.Sequential,
				RoomsSkipped:       []core.SkippedRoom{{ID: "rb", Row: 2, Type: core.RoomYellowOnly}},
			},
			{
				Kind: core.VictimTriaged, Row: 9, SecondsRemaining: 540,
				RoomID: "ra", RoomName: "Room A", Score: 10,
				VictimColor: core.Yellow, VictimStrategy: core.YellowFirst,
				NextVictimDistance: &dist, TotalYellowRemaining: 3,
			},
		},
	}
}

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := New(config.MemoryConfig{ExportDir: t.TempDir()})
	require.NoError(t, b.Init())
	return b
}

func TestRecordTrialWritesJSON(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.RecordTrial(testResult()))

	path := filepath.Join(b.cfg.ExportDir, "member_51_trial_000123_results.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got core.TrialResult
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "P000051", got.SubjectID)
	assert.Equal(t, 140, got.FinalScore)
	require.Len(t, got.Events, 2)
	assert.Equal(t, core.RoomEntered, got.Events[0].Kind)

	assert.Equal(t, []string{path}, b.ExportedFilePaths())
}

func TestRecordTrialError(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.RecordTrialError(core.TrialError{
		MemberID: "51", TrialID: "000123", Reason: "corrupted trial file",
	}))

	data, err := os.ReadFile(filepath.Join(b.cfg.ExportDir, "member_51_trial_000123_ERROR.txt"))
	require.NoError(t, err)
	assert.Equal(t, "corrupted trial file\n", string(data))
}

func TestFinalizeWritesDataCSV(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.RecordTrial(testResult()))
	require.NoError(t, b.Finalize())

	f, err := os.Open(filepath.Join(b.cfg.ExportDir, "results_data.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	header, row := rows[0], rows[1]
	// 14 scalar columns plus 3 per strategy per machine
	require.Len(t, header, 14+2*5*3)
	assert.Equal(t, "member_id", header[0])
	assert.Equal(t, "victim_strategy_data.Yellow First.time_spent", header[14])

	cell := func(name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("no column %q", name)
		return ""
	}
	assert.Equal(t, "51", cell("member_id"))
	assert.Equal(t, "140", cell("final_score"))
	assert.Equal(t, "Yellow First", cell("original_victim_strategy"))
	assert.Equal(t, "120", cell("victim_strategy_data.Yellow First.time_spent"))
	assert.Equal(t, "12", cell("victim_strategy_data.Yellow First.points_per_minute"))
	assert.Equal(t, "", cell("victim_strategy_data.Green First.score"))
	assert.Equal(t, "300", cell("navigation_strategy_data.Sequential.time_spent"))
	assert.Equal(t, "", cell("competency_score"))
}

func TestFinalizeWritesEventsCSV(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.RecordTrial(testResult()))
	require.NoError(t, b.Finalize())

	f, err := os.Open(filepath.Join(b.cfg.ExportDir, "results_events.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	cell := func(row []string, name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("no column %q", name)
		return ""
	}

	entered := rows[1]
	assert.Equal(t, "000123", cell(entered, "trial_id"))
	assert.Equal(t, "room_entered", cell(entered, "event"))
	assert.Equal(t, "Sequential", cell(entered, "nav_strategy"))
	assert.Equal(t, `[{"id":"rb","index":2,"type":1}]`, cell(entered, "rooms_skipped"))
	assert.Empty(t, cell(entered, "victim_color"))

	triaged := rows[2]
	assert.Equal(t, "victim_triaged", cell(triaged, "event"))
	assert.Equal(t, "Yellow", cell(triaged, "victim_color"))
	assert.Equal(t, "2.5", cell(triaged, "next_victim_distance"))
	assert.Equal(t, "3", cell(triaged, "total_yellow_victims_remaining"))
	assert.Empty(t, cell(triaged, "rooms_skipped"))
}

func TestCompressedExport(t *testing.T) {
	b := New(config.MemoryConfig{ExportDir: t.TempDir(), CompressOutput: true})
	require.NoError(t, b.Init())
	require.NoError(t, b.RecordTrial(testResult()))

	_, err := os.Stat(filepath.Join(b.cfg.ExportDir, "member_51_trial_000123_results.json.gz"))
	assert.NoError(t, err)
}
