// Package strategy runs the two finite-state classifiers over the
// canonical event stream and accumulates the per-strategy dwell time
// and score statistics.
package strategy

import (
	"errors"
	"fmt"

	"github.com/GallupGovt/ASIST/internal/model/core"
)

// ErrNoTransition marks a (state, input) pair the transition tables do
// not cover. The tables are total over the reachable states, so hitting
// this is a bug, not a data problem.
var ErrNoTransition = errors.New("strategy transition table exhausted without a match")

// victimRule holds one state's transitions for the victim priority
// machine: a two-entry rescued-color table and a four-entry
// exited-room-type table.
type victimRule struct {
	rescued map[core.VictimColor]core.Strategy
	exited  [4]core.Strategy
}

// victimTable drives the victim priority machine. Rescuing a yellow
// keeps or restores the yellow-first reading; rescuing a green while in
// a yellow-leaning state reads as mixed behavior. The exited-room rows
// encode what leaving a room in each fill state says about priorities.
var victimTable = map[core.Strategy]victimRule{
	core.YellowFirst: {
		rescued: map[core.VictimColor]core.Strategy{core.Yellow: core.YellowFirst, core.Green: core.Mixed},
		exited:  [4]core.Strategy{core.YellowFirst, core.Mixed, core.YellowFirst, core.Mixed},
	},
	core.Sequential: {
		rescued: map[core.VictimColor]core.Strategy{core.Yellow: core.YellowFirst, core.Green: core.Mixed},
		exited:  [4]core.Strategy{core.Sequential, core.YellowFirst, core.Mixed, core.GreenFirst},
	},
	core.Mixed: {
		rescued: map[core.VictimColor]core.Strategy{core.Yellow: core.YellowFirst, core.Green: core.Mixed},
		exited:  [4]core.Strategy{core.Sequential, core.YellowFirst, core.Mixed, core.GreenFirst},
	},
	core.GreenFirst: {
		rescued: map[core.VictimColor]core.Strategy{core.Yellow: core.Mixed, core.Green: core.GreenFirst},
		exited:  [4]core.Strategy{core.GreenFirst, core.Mixed, core.GreenFirst, core.Mixed},
	},
}

// victimMachine holds the victim priority state between events.
type victimMachine struct {
	state core.Strategy
}

// step advances the machine for one event and returns the new state.
// Room entries without an exited room type carry the state forward.
func (m *victimMachine) step(ev *core.CanonicalEvent, expired bool) (core.Strategy, error) {
	if expired {
		m.state = core.GreenFirst
		return m.state, nil
	}

	rule, ok := victimTable[m.state]
	if !ok {
		return "", fmt.Errorf("%w: victim state %q", ErrNoTransition, m.state)
	}

	switch ev.Kind {
	case core.VictimTriaged:
		next, ok := rule.rescued[ev.VictimColor]
		if !ok {
			return "", fmt.Errorf("%w: victim state %q, color %q", ErrNoTransition, m.state, ev.VictimColor)
		}
		m.state = next
	case core.RoomEntered:
		if ev.ExitedRoomType != nil {
			m.state = rule.exited[*ev.ExitedRoomType]
		}
	}
	return m.state, nil
}
