package core

// TrialInfo is the metadata parsed from a trial file name.
type TrialInfo struct {
	MemberID   string     `json:"member_id"`
	SubjectID  string     `json:"subject_id"`
	TrialID    string     `json:"trial_id"`
	Complexity Difficulty `json:"complexity"`
	Training   string     `json:"training"`
}

// SurveyScores are the per-subject scalars joined from the survey table.
type SurveyScores struct {
	Workload             *int     `json:"workload"`
	OrigVictimStrategy   Strategy `json:"original_victim_strategy"`
	OrigNavStrategy      Strategy `json:"original_nav_strategy"`
	VideogameExperience  *int     `json:"videogame_experience"`
	SatisficingQ7Average *float64 `json:"q7_average"`
	SatisficingQ8Average *float64 `json:"q8_average"`
	Q239                 *float64 `json:"q239"`
}

// TrialResult is the complete output for one processed trial.
type TrialResult struct {
	TrialInfo
	SurveyScores

	CompetencyScore *float64 `json:"competency_score"`
	FinalScore      int      `json:"final_score"`

	VictimStrategyData StrategyData `json:"victim_strategy_data"`
	NavStrategyData    StrategyData `json:"navigation_strategy_data"`

	Events []CanonicalEvent `json:"events"`
}

// TrialError is the fatal-per-trial error marker written to storage when
// a trial cannot be processed. The batch continues past it.
type TrialError struct {
	MemberID string `json:"member_id"`
	TrialID  string `json:"trial_id"`
	File     string `json:"file"`
	Reason   string `json:"reason"`
}

func (e TrialError) Error() string {
	return e.Reason
}
