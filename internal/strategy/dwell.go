package strategy

import (
	"github.com/GallupGovt/ASIST/internal/model/core"
)

// Dwell walks the events of one kind and attributes elapsed time and
// score deltas to the strategy that was active going into each event.
// Accumulation is clipped to the window between mission start and
// windowSeconds remaining on the clock; the total dwell time across all
// strategies always comes out to exactly that window.
func Dwell(events []core.CanonicalEvent, kind core.EventKind, initial core.Strategy, missionSeconds, windowSeconds float64) core.StrategyData {
	data := make(core.StrategyData)
	acc := func(s core.Strategy, seconds float64, score int) {
		st, ok := data[s]
		if !ok {
			st = &core.StrategyStats{}
			data[s] = st
		}
		st.TimeSpent += seconds
		st.Score += score
	}

	prevSR := missionSeconds
	prevScore := 0
	outgoing := initial
	for i := range events {
		ev := &events[i]
		if ev.Kind != kind {
			continue
		}
		if ev.SecondsRemaining < windowSeconds {
			// The interval crosses the cutoff. Clip the time at the
			// window edge; the score at this row is the score the
			// window ends on, so its delta still counts.
			acc(outgoing, prevSR-windowSeconds, ev.Score-prevScore)
			prevSR = windowSeconds
			outgoing = eventStrategy(ev)
			break
		}
		acc(outgoing, prevSR-ev.SecondsRemaining, ev.Score-prevScore)
		prevSR = ev.SecondsRemaining
		prevScore = ev.Score
		outgoing = eventStrategy(ev)
	}
	// Close the window if the events ran out before the cutoff.
	if prevSR > windowSeconds {
		acc(outgoing, prevSR-windowSeconds, 0)
	}

	data.FinalizeRates()
	return data
}

func eventStrategy(ev *core.CanonicalEvent) core.Strategy {
	if ev.Kind == core.RoomEntered {
		return ev.NavigationStrategy
	}
	return ev.VictimStrategy
}
