// Package parser decodes raw trial metadata dumps into normalized
// Record streams. One dump is a sequence of JSON objects, one message
// per line, in message bus arrival order.
package parser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/GallupGovt/ASIST/internal/util"
)

// DefaultGodAccounts are the non-player observer accounts whose
// messages must be filtered out of every trial.
var DefaultGodAccounts = []string{"ASIST2", "ASIST3", "ASIST6", "ASU_MC"}

// Parser converts raw metadata lines into core.Record values. It is
// pure transformation with only a logger dependency; trials never share
// a Parser instance.
type Parser struct {
	logger      *slog.Logger
	godAccounts map[string]bool
}

// NewParser creates a parser filtering the given observer accounts.
func NewParser(logger *slog.Logger, godAccounts []string) *Parser {
	gods := make(map[string]bool, len(godAccounts))
	for _, g := range godAccounts {
		gods[g] = true
	}
	return &Parser{logger: logger, godAccounts: gods}
}

// rawLine mirrors one line of the metadata dump. Data is deferred so
// each topic can decode its own payload shape.
type rawLine struct {
	Topic string          `json:"topic"`
	Name  string          `json:"name"`
	Data  json.RawMessage `json:"data"`
}

// dataHeader holds the payload fields shared across topics that the
// god-account filter and mission gating need before full decoding.
type dataHeader struct {
	Name         string `json:"name"`
	PlayerName   string `json:"playername"`
	MissionState string `json:"mission_state"`
}

// Decode reads the full dump and returns the normalized record stream:
// pre-start rows dropped (except the ground-truth victim list), god
// accounts removed, scores backfilled, and position/timer fields
// forward-filled.
func (p *Parser) Decode(r io.Reader) ([]core.Record, error) {
	records, err := p.decodeLines(r)
	if err != nil {
		return nil, err
	}
	finalScore := backfillScores(records)
	forwardFill(records)
	p.logger.Debug("Decoded trial dump",
		"records", len(records),
		"finalScore", finalScore)
	return records, nil
}

// FinalScore returns the highest score observed on any scoreboard row.
func FinalScore(records []core.Record) int {
	best := 0
	for i := range records {
		for _, v := range records[i].Scoreboard {
			if v > best {
				best = v
			}
		}
	}
	return best
}

func (p *Parser) decodeLines(r io.Reader) ([]core.Record, error) {
	var records []core.Record
	started := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var raw rawLine
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("error decoding metadata line %d: %w", lineNo, err)
		}
		var hdr dataHeader
		if len(raw.Data) > 0 {
			if err := json.Unmarshal(raw.Data, &hdr); err != nil {
				return nil, fmt.Errorf("error decoding metadata line %d: %w", lineNo, err)
			}
		}

		// Everything before the mission start marker is discarded,
		// except the ground-truth victim list which arrives early.
		if !started {
			if raw.Topic == core.TopicMission && hdr.MissionState == "Start" {
				started = true
			} else if raw.Topic != core.TopicVictimList {
				continue
			}
		}

		if p.godAccounts[raw.Name] || p.godAccounts[hdr.Name] || p.godAccounts[hdr.PlayerName] {
			continue
		}

		rec, err := p.decodePayload(raw, hdr)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s payload at line %d: %w", raw.Topic, lineNo, err)
		}
		rec.Index = len(records)
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading metadata dump: %w", err)
	}
	return records, nil
}

// backfillScores walks the stream in reverse, propagating each
// scoreboard value onto the immediately preceding successful triage row.
// Scoreboard updates arrive after the triage that caused them. Returns
// the final (highest) score.
func backfillScores(records []core.Record) int {
	score := 0
	final := 0
	for i := len(records) - 1; i >= 0; i-- {
		r := &records[i]
		switch r.Topic {
		case core.TopicScoreboard:
			// One player remains after the observer strip, but take
			// entries in name order so duplicates resolve the same
			// way every run.
			names := make([]string, 0, len(r.Scoreboard))
			for name := range r.Scoreboard {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				score = r.Scoreboard[name]
				if score > final {
					final = score
				}
			}
		case core.TopicTriage:
			if r.TriageSuccessful() {
				s := score
				r.Score = &s
			}
		}
	}
	return final
}

// forwardFill carries position and timer values forward across rows
// that do not set them, and derives SecondsRemaining from the timer.
func forwardFill(records []core.Record) {
	var x, y, z *float64
	var timer string
	var secs *float64
	for i := range records {
		r := &records[i]
		if r.X != nil {
			x, y, z = r.X, r.Y, r.Z
		} else {
			r.X, r.Y, r.Z = x, y, z
		}
		if r.MissionTimer != "" {
			timer = r.MissionTimer
			if s, ok := util.TimerToSeconds(timer); ok {
				v := s
				secs = &v
			}
		} else {
			r.MissionTimer = timer
		}
		r.SecondsRemaining = secs
	}
}
