package reconstruct

import (
	"sort"

	"github.com/GallupGovt/ASIST/internal/ledger"
	"github.com/GallupGovt/ASIST/internal/model/core"
)

// annotate enriches the assembled events with room state from the
// ledger, cumulative entry counters, triage rates, and the search time
// averages derived from first sightings.
func (rc *Reconstructor) annotate(out *Output, initial core.RoomState) error {
	roll := ledger.NewRolling(initial, out.ExpireRow, out.Triage)
	search := rc.buildSearchTimes()

	entriesEmpty, entriesFull := 0, 0
	greensTriaged, yellowsTriaged := 0, 0
	yellowRate := 0.0

	for i := range out.Events {
		ev := &out.Events[i]
		state := roll.At(ev.Row)

		cur := state[ev.RoomID]
		ev.YellowInCurrentRoom = cur.Yellow
		ev.GreenInCurrentRoom = cur.Green

		ev.GreenSearchTime, ev.YellowSearchTime = search.at(ev.SecondsRemaining)
		ev.TotalYellowRemaining = state[core.TotalRoom].Yellow

		switch ev.Kind {
		case core.RoomEntered:
			ev.RoomType = cur.Type
			if ev.ExitedRoomID != "" {
				exited := state[ev.ExitedRoomID]
				t := exited.Type
				ev.ExitedRoomType = &t
				ev.LeftBehindGreen = exited.Green
				ev.LeftBehindYellow = exited.Yellow
			}
			if cur.Type == core.RoomEmpty {
				entriesEmpty++
			} else {
				entriesFull++
			}
			ev.RoomsEnteredEmpty = entriesEmpty
			ev.RoomsEnteredFull = entriesFull

			for j := range ev.RoomsSkipped {
				s := &ev.RoomsSkipped[j]
				past, err := out.Ledger.StateAt(s.Row)
				if err != nil {
					return err
				}
				s.Type = past[s.ID].Type
			}

		case core.VictimTriaged:
			switch ev.VictimColor {
			case core.Green:
				greensTriaged++
			case core.Yellow:
				yellowsTriaged++
			}

			elapsedMin := (rc.missionSeconds - ev.SecondsRemaining) / 60
			if elapsedMin > 0 {
				greenRate := float64(greensTriaged) / elapsedMin
				ev.GreenPerMinute = &greenRate
				ev.ExpectedGreenRate = expectedGreenRate(out.TotalGreen, greenRate)

				// The yellow rate is only recomputed while yellows are
				// still alive; afterwards events carry the last value.
				if ev.Row < out.ExpireRow {
					yellowRate = float64(yellowsTriaged) / elapsedMin
				}
				yr := yellowRate
				ev.YellowPerMinute = &yr
			}
		}
	}
	return nil
}

// expectedGreenRate projects the green triage rate over the second half
// of the mission. When the remaining greens cannot sustain the observed
// rate for a full five minutes, the projection drops to what is left.
func expectedGreenRate(totalGreen int, greenRate float64) *float64 {
	var expected float64
	if float64(totalGreen) > greenRate*5 {
		expected = greenRate
	} else {
		expected = (float64(totalGreen) - greenRate*5) / 5
	}
	return &expected
}

// searchPoint is one first sighting in chronological order. The green
// and yellow averages are the running mean intervals between first
// sightings of each color as of this sighting; nil while a color has
// fewer than two sightings. The first sighting of each color anchors
// the interval chain and carries no averages itself.
type searchPoint struct {
	firstSeen float64
	green     *float64
	yellow    *float64
}

// searchTimeSeries resolves the search time averages in effect at a
// given mission clock value. Queries must come in chronological order;
// events before any applicable sighting inherit the previous event's
// values.
type searchTimeSeries struct {
	points []searchPoint
	idx    int
	cur    *searchPoint
	green  *float64
	yellow *float64
}

// buildSearchTimes walks all first sightings from mission start and
// materializes the running average intervals per color.
func (rc *Reconstructor) buildSearchTimes() *searchTimeSeries {
	type sighting struct {
		fs    float64
		color core.VictimColor
	}
	var sightings []sighting
	for _, v := range rc.reg.Sorted() {
		if v.FirstSeen == nil {
			continue
		}
		sightings = append(sightings, sighting{fs: *v.FirstSeen, color: v.Color})
	}
	// Descending seconds remaining is chronological order.
	sort.SliceStable(sightings, func(i, j int) bool { return sightings[i].fs > sightings[j].fs })

	s := &searchTimeSeries{points: make([]searchPoint, 0, len(sightings))}
	last := map[core.VictimColor]*float64{}
	total := map[core.VictimColor]float64{}
	count := map[core.VictimColor]int{}
	for _, sg := range sightings {
		p := searchPoint{firstSeen: sg.fs}
		if prev := last[sg.color]; prev == nil {
			fs := sg.fs
			last[sg.color] = &fs
			s.points = append(s.points, p)
			continue
		}
		total[sg.color] += *last[sg.color] - sg.fs
		fs := sg.fs
		last[sg.color] = &fs
		count[sg.color]++
		if n := count[core.Green]; n > 0 {
			avg := total[core.Green] / float64(n)
			p.green = &avg
		}
		if n := count[core.Yellow]; n > 0 {
			avg := total[core.Yellow] / float64(n)
			p.yellow = &avg
		}
		s.points = append(s.points, p)
	}
	return s
}

// at returns the averages in effect at the given clock value.
func (s *searchTimeSeries) at(secondsRemaining float64) (green, yellow *float64) {
	for s.idx < len(s.points) && s.points[s.idx].firstSeen >= secondsRemaining {
		s.cur = &s.points[s.idx]
		s.idx++
	}
	if s.cur != nil {
		if s.cur.green != nil {
			s.green = s.cur.green
		}
		if s.cur.yellow != nil {
			s.yellow = s.cur.yellow
		}
	}
	return s.green, s.yellow
}
