// Package util provides common utility functions used across the trial
// analyzer.
package util

import (
	"fmt"
	"regexp"
	"strings"
)

// roomAliases corrects known variances between the beep trigger table's
// display names and the semantic map's room names.
var roomAliases = map[string]string{
	"The Computer Farm": "Computer Farm",
	"Open Break Area":   "Break Room",
	"Janitor":           "Janitor's Closet",
}

// NormalizeRoomName resolves known display-name aliases to the canonical
// semantic map name. Unknown names pass through unchanged.
func NormalizeRoomName(name string) string {
	if canonical, ok := roomAliases[name]; ok {
		return canonical
	}
	return name
}

var timerRe = regexp.MustCompile(`([0-9]*) : ([0-9]*)`)

// TimerToSeconds parses a mission timer of the form "MM : SS" into
// seconds remaining. Returns false for empty or malformed timers.
func TimerToSeconds(timer string) (float64, bool) {
	if timer == "" {
		return 0, false
	}
	m := timerRe.FindStringSubmatch(timer)
	if m == nil || m[1] == "" || m[2] == "" {
		return 0, false
	}
	var mins, secs int
	if _, err := fmt.Sscanf(m[1], "%d", &mins); err != nil {
		return 0, false
	}
	if _, err := fmt.Sscanf(m[2], "%d", &secs); err != nil {
		return 0, false
	}
	return float64(mins*60 + secs), true
}

// SubjectID converts a numeric member id ("23") into the survey table's
// subject id form ("P000023").
func SubjectID(memberID string) string {
	return "P" + leftPad(memberID, 6)
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
