package parser

import (
	"fmt"
	"regexp"

	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/GallupGovt/ASIST/internal/util"
)

var trialFileRe = regexp.MustCompile(
	`TrialMessages_CondBtwn-(.*)_CondWin-Falcon(.*)-(.*)_Trial-(.*)_Team.*_Member-(.*)_`)

// ParseTrialFilename extracts the trial metadata encoded in a metadata
// dump's file name.
func ParseTrialFilename(name string) (core.TrialInfo, error) {
	m := trialFileRe.FindStringSubmatch(name)
	if m == nil {
		return core.TrialInfo{}, fmt.Errorf("file name %q does not match trial naming scheme", name)
	}
	complexity := m[2]
	if complexity == "Med" {
		complexity = "Medium"
	}
	info := core.TrialInfo{
		MemberID:   m[5],
		SubjectID:  util.SubjectID(m[5]),
		TrialID:    m[4],
		Complexity: core.Difficulty(complexity),
		Training:   m[1] + " " + m[3],
	}
	return info, nil
}
