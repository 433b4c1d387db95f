package strategy

import (
	"github.com/GallupGovt/ASIST/internal/model/core"
)

// DefaultInitial is the fallback state when a subject's survey carries
// no usable self-reported strategy.
const DefaultInitial = core.Sequential

// Classifier annotates a canonical event stream with the two strategy
// machines and the skip consistency counters. One classifier serves one
// trial.
type Classifier struct {
	victim    victimMachine
	nav       navMachine
	expireRow int

	consistent   int
	inconsistent int
}

// NewClassifier creates a classifier seeded with the subject's
// self-reported strategies. Events at or past expireRow force the
// victim machine to GreenFirst.
func NewClassifier(victimInitial, navInitial core.Strategy, expireRow int) *Classifier {
	return &Classifier{
		victim:    victimMachine{state: victimInitial},
		nav:       navMachine{state: navInitial},
		expireRow: expireRow,
	}
}

// Annotate runs both machines over the event stream in order, writing
// the strategy labels and running consistency counters onto the events.
func (c *Classifier) Annotate(events []core.CanonicalEvent) error {
	for i := range events {
		ev := &events[i]

		vs, err := c.victim.step(ev, ev.Row >= c.expireRow)
		if err != nil {
			return err
		}
		// Both running labels land on every event. The machine that
		// does not transition on this kind carries its current state.
		ev.VictimStrategy = vs

		if ev.Kind == core.RoomEntered {
			ns, err := c.nav.step(ev)
			if err != nil {
				return err
			}
			ev.NavigationStrategy = ns

			for _, s := range ev.RoomsSkipped {
				if skipConsistent(s.Type, vs) {
					c.consistent++
				} else {
					c.inconsistent++
				}
			}
			ev.PriorConsistent = c.consistent
			ev.PriorInconsistent = c.inconsistent
		} else {
			ev.NavigationStrategy = c.nav.state
		}
	}
	return nil
}
