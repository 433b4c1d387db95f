package strategy

import (
	"fmt"

	"github.com/GallupGovt/ASIST/internal/model/core"
)

// Skip classes, ordered by the severity scan in skipClass.
const (
	skipNone   = 0
	skipGreen  = 1
	skipYellow = 2
	skipEmpty  = 3
)

// navTable drives the navigation machine. Indexed by current state,
// then the entered room's collapsed type (0 empty, 1 yellow, 2 green;
// both collapses to 1), then the skip class of the rooms skipped on the
// way in. Enumerated explicitly, one row per state and room type.
var navTable = map[core.Strategy][3][4]core.Strategy{
	core.YellowFirst: {
		{core.Sequential, core.Mixed, core.Mixed, core.Mixed},
		{core.YellowFirst, core.YellowFirst, core.Mixed, core.YellowFirst},
		{core.Sequential, core.Mixed, core.Mixed, core.AvoidEmpty},
	},
	core.AvoidEmpty: {
		{core.Sequential, core.Mixed, core.Mixed, core.Mixed},
		{core.AvoidEmpty, core.YellowFirst, core.Mixed, core.AvoidEmpty},
		{core.AvoidEmpty, core.Mixed, core.Mixed, core.AvoidEmpty},
	},
	core.Sequential: {
		{core.Sequential, core.Mixed, core.Mixed, core.Mixed},
		{core.Sequential, core.YellowFirst, core.Mixed, core.AvoidEmpty},
		{core.Sequential, core.Mixed, core.Mixed, core.AvoidEmpty},
	},
	core.GreenFirst: {
		{core.Sequential, core.Mixed, core.Mixed, core.Mixed},
		{core.Sequential, core.YellowFirst, core.Mixed, core.AvoidEmpty},
		{core.GreenFirst, core.Mixed, core.Mixed, core.GreenFirst},
	},
	core.Mixed: {
		{core.Sequential, core.Mixed, core.Mixed, core.Mixed},
		{core.Sequential, core.YellowFirst, core.Mixed, core.AvoidEmpty},
		{core.Sequential, core.Mixed, core.Mixed, core.AvoidEmpty},
	},
}

// navMachine holds the navigation state between events.
type navMachine struct {
	state core.Strategy
}

// step advances the machine on a room entry and returns the new state.
func (m *navMachine) step(ev *core.CanonicalEvent) (core.Strategy, error) {
	rows, ok := navTable[m.state]
	if !ok {
		return "", fmt.Errorf("%w: nav state %q", ErrNoTransition, m.state)
	}
	t := ev.RoomType
	if t == core.RoomBoth {
		t = core.RoomYellowOnly
	}
	m.state = rows[t][skipClass(ev.RoomsSkipped)]
	return m.state, nil
}

// skipClass reduces a skipped-room list to the worst classification
// present. A yellow or mixed skip dominates a green-only skip, which
// dominates an empty skip.
func skipClass(skipped []core.SkippedRoom) int {
	class := skipNone
	sawGreen, sawEmpty := false, false
	for _, s := range skipped {
		switch s.Type {
		case core.RoomYellowOnly, core.RoomBoth:
			return skipYellow
		case core.RoomGreenOnly:
			sawGreen = true
		case core.RoomEmpty:
			sawEmpty = true
		}
	}
	switch {
	case sawGreen:
		class = skipGreen
	case sawEmpty:
		class = skipEmpty
	}
	return class
}

// skipConsistent reports whether skipping a room of the given type is
// consistent with the current victim priority strategy. Skipping a room
// holding both colors is never consistent.
func skipConsistent(t core.RoomType, vs core.Strategy) bool {
	switch t {
	case core.RoomEmpty:
		return vs != core.Sequential
	case core.RoomYellowOnly:
		return vs != core.YellowFirst && vs != core.Mixed && vs != core.Sequential
	case core.RoomGreenOnly:
		return vs != core.GreenFirst && vs != core.Mixed && vs != core.Sequential
	default:
		return false
	}
}
