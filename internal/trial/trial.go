// Package trial orchestrates the per-trial pipeline: filename and
// survey metadata, raw dump decoding, event stream reconstruction,
// strategy classification, and dwell aggregation.
package trial

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/GallupGovt/ASIST/internal/cache"
	"github.com/GallupGovt/ASIST/internal/logging"
	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/GallupGovt/ASIST/internal/parser"
	"github.com/GallupGovt/ASIST/internal/reconstruct"
	"github.com/GallupGovt/ASIST/internal/strategy"
	"github.com/GallupGovt/ASIST/internal/survey"
	"github.com/GallupGovt/ASIST/internal/victim"
)

// CompetencyFunc resolves a member's competency task score. Returns nil
// when the member has no competency data.
type CompetencyFunc func(memberID string) *float64

// Dependencies holds the shared structures a processor needs. All of
// them are safe for concurrent use across workers.
type Dependencies struct {
	LogManager *logging.SlogManager
	Indexes    *cache.IndexCache
	Surveys    *survey.Table
	Competency CompetencyFunc
}

// Options are the per-run tunables.
type Options struct {
	GodAccounts    []string
	MissionSeconds float64
	WindowSeconds  float64
}

// Processor runs the full pipeline for single trial files. One
// processor serves many trials; per-trial state lives in Process.
type Processor struct {
	deps Dependencies
	opts Options
}

// NewProcessor creates a processor. Zero-valued options fall back to
// the standard mission parameters.
func NewProcessor(deps Dependencies, opts Options) *Processor {
	if opts.GodAccounts == nil {
		opts.GodAccounts = parser.DefaultGodAccounts
	}
	if opts.MissionSeconds == 0 {
		opts.MissionSeconds = 600
	}
	if opts.WindowSeconds == 0 {
		opts.WindowSeconds = 300
	}
	return &Processor{deps: deps, opts: opts}
}

// Process runs the pipeline over one metadata dump and returns the
// complete trial result. Any error means the trial produced no usable
// result and should be recorded as a trial error.
func (p *Processor) Process(path string) (*core.TrialResult, error) {
	info, err := parser.ParseTrialFilename(filepath.Base(path))
	if err != nil {
		return nil, err
	}

	log := p.deps.LogManager.Logger().With(
		"member", info.MemberID,
		"trial", info.TrialID)

	scores, err := p.deps.Surveys.Scores(info.SubjectID, info.Complexity)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trial file: %w", err)
	}
	defer f.Close()

	records, err := parser.NewParser(log, p.opts.GodAccounts).Decode(f)
	if err != nil {
		return nil, fmt.Errorf("corrupted trial file: %w", err)
	}

	ix, err := p.deps.Indexes.Get(info.Complexity)
	if err != nil {
		return nil, err
	}

	reg := victim.NewRegistry()
	initial := ix.InitialRoomState()
	seeded := false
	for i := range records {
		r := &records[i]
		if r.Topic != core.TopicVictimList || len(r.VictimList) == 0 {
			continue
		}
		reg.AddFromGroundTruth(r.VictimList, ix)
		if !seeded {
			if err := victim.RoomCounts(r.VictimList, ix, initial); err != nil {
				return nil, err
			}
			seeded = true
		}
	}

	out, err := reconstruct.New(log, ix, reg, p.opts.MissionSeconds).Run(records, initial)
	if err != nil {
		return nil, err
	}

	cls := strategy.NewClassifier(scores.OrigVictimStrategy, scores.OrigNavStrategy, out.ExpireRow)
	if err := cls.Annotate(out.Events); err != nil {
		return nil, err
	}

	result := &core.TrialResult{
		TrialInfo:    info,
		SurveyScores: scores,
		FinalScore:   parser.FinalScore(records),
		VictimStrategyData: strategy.Dwell(out.Events, core.VictimTriaged,
			scores.OrigVictimStrategy, p.opts.MissionSeconds, p.opts.WindowSeconds),
		NavStrategyData: strategy.Dwell(out.Events, core.RoomEntered,
			scores.OrigNavStrategy, p.opts.MissionSeconds, p.opts.WindowSeconds),
		Events: out.Events,
	}
	if p.deps.Competency != nil {
		result.CompetencyScore = p.deps.Competency(info.MemberID)
	}

	log.Info("Processed trial",
		"events", len(result.Events),
		"finalScore", result.FinalScore)
	return result, nil
}

// AsTrialError wraps a processing failure into the persistent error
// marker. Filename metadata is re-derived best effort so the marker
// stays addressable even for unparseable names.
func AsTrialError(path string, err error) core.TrialError {
	te := core.TrialError{
		File:   filepath.Base(path),
		Reason: err.Error(),
	}
	if info, ferr := parser.ParseTrialFilename(filepath.Base(path)); ferr == nil {
		te.MemberID = info.MemberID
		te.TrialID = info.TrialID
	}
	return te
}
