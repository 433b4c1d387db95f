package worker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GallupGovt/ASIST/internal/cache"
	"github.com/GallupGovt/ASIST/internal/config"
	"github.com/GallupGovt/ASIST/internal/logging"
	"github.com/GallupGovt/ASIST/internal/storage/memory"
	"github.com/GallupGovt/ASIST/internal/survey"
	"github.com/GallupGovt/ASIST/internal/trial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workerMap = `{
	"locations": [
		{"id": "ra", "name": "Room A", "type": "room",
			"bounds": {"coordinates": [{"x": 0, "z": 0}, {"x": 5, "z": 5}]}}
	]
}`

const workerTriggers = `RoomName,LocationXYZ
Room A,2 60 2
`

const workerSurvey = `Q5,o
Subject ID,Block order
ImportId,
P000051,123
`

const workerDump = `{"topic": "observations/events/mission", "data": {"mission_state": "Start", "mission_timer": "10 : 0"}}
{"topic": "observations/state", "data": {"x": 2.0, "y": 60.0, "z": 2.0, "mission_timer": "9 : 50"}}
{"topic": "observations/events/player/location", "data": {"locations": [{"id": "ra"}]}}
`

func testManager(t *testing.T) (*Manager, *memory.Backend, string) {
	t.Helper()
	dir := t.TempDir()

	mapDir := filepath.Join(dir, "maps")
	require.NoError(t, os.MkdirAll(mapDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mapDir, "Falcon_v1.0_Easy_sm.json"), []byte(workerMap), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(mapDir, "MapInfo_Easy.csv"), []byte(workerTriggers), 0o644))

	trialDir := filepath.Join(dir, "trials")
	require.NoError(t, os.MkdirAll(trialDir, 0o755))

	surveys, err := survey.Load(strings.NewReader(workerSurvey))
	require.NoError(t, err)

	logManager := logging.NewSlogManager()
	processor := trial.NewProcessor(trial.Dependencies{
		LogManager: logManager,
		Indexes:    cache.NewIndexCache(mapDir),
		Surveys:    surveys,
	}, trial.Options{})

	backend := memory.New(config.MemoryConfig{ExportDir: filepath.Join(dir, "out")})
	require.NoError(t, backend.Init())

	return NewManager(Dependencies{
		LogManager: logManager,
		Processor:  processor,
	}, backend), backend, trialDir
}

func writeTrial(t *testing.T, dir, member, trialID, content string) string {
	t.Helper()
	name := "TrialMessages_CondBtwn-TriageSignal_CondWin-FalconEasy-StaticMap_Trial-" +
		trialID + "_Team-na_Member-" + member + "_Vers-3.metadata"
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiscoverTrials(t *testing.T) {
	dir := t.TempDir()
	b := writeTrial(t, dir, "52", "000124", workerDump)
	a := writeTrial(t, dir, "51", "000123", workerDump)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	paths, err := DiscoverTrials(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, paths)
}

func TestRunRecordsResultsAndErrors(t *testing.T) {
	m, backend, trialDir := testManager(t)

	good := writeTrial(t, trialDir, "51", "000123", workerDump)
	bad := writeTrial(t, trialDir, "51", "000124", `{"topic": broken`)

	require.NoError(t, m.Run([]string{good, bad}, 2))

	assert.Equal(t, 1, m.Processed())
	assert.Equal(t, 1, m.Failed())

	// the good trial exported its JSON, the bad one its error marker,
	// and Finalize wrote both batch CSVs
	outDir := filepath.Dir(backend.ExportedFilePaths()[0])
	_, err := os.Stat(filepath.Join(outDir, "member_51_trial_000123_results.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "member_51_trial_000124_ERROR.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "results_data.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "results_events.csv"))
	assert.NoError(t, err)
}

func TestRunEmptyBatch(t *testing.T) {
	m, _, _ := testManager(t)
	require.NoError(t, m.Run(nil, 4))
	assert.Zero(t, m.Processed())
	assert.Zero(t, m.Failed())
}
