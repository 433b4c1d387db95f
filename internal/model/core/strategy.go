package core

// Strategy is one inferred behavioral strategy label. The victim
// priority machine uses four of these, the navigation machine five
// (it adds AvoidEmpty).
type Strategy string

const (
	YellowFirst Strategy = "Yellow First"
	GreenFirst  Strategy = "Green First"
	Sequential  Strategy = "Sequential"
	Mixed       Strategy = "Mixed"
	AvoidEmpty  Strategy = "Avoid Empty"
)

// ParseStrategy maps a survey answer to a Strategy. "Insufficient" and
// unknown answers fall back to Sequential, the documented default.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case YellowFirst, GreenFirst, Sequential, Mixed, AvoidEmpty:
		return Strategy(s)
	default:
		return Sequential
	}
}

// StrategyStats accumulates dwell time and score for one strategy over
// the clipped analysis window.
type StrategyStats struct {
	TimeSpent       float64  `json:"time_spent"`
	Score           int      `json:"score"`
	PointsPerMinute *float64 `json:"points_per_minute"`
}

// StrategyData maps strategy label to its accumulated statistics.
type StrategyData map[Strategy]*StrategyStats

// FinalizeRates computes points per minute for every entry. Entries with
// zero dwell time keep a nil rate.
func (d StrategyData) FinalizeRates() {
	for _, s := range d {
		if s.TimeSpent != 0 {
			ppm := float64(s.Score) / (s.TimeSpent / 60)
			s.PointsPerMinute = &ppm
		}
	}
}
