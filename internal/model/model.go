package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&AnalyzerInfo{},
	&Trial{},
	&TrialEvent{},
	&TrialErrorRecord{},
}

var DatabaseModelsSQLite = []interface{}{
	&AnalyzerInfo{},
	&Trial{},
	&TrialEvent{},
	&TrialErrorRecord{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// AnalyzerInfo contains information about the analysis run that produced the rows
type AnalyzerInfo struct {
	gorm.Model
	StudyName        string `json:"studyName" gorm:"size:127"`
	StudyDescription string `json:"studyDescription" gorm:"size:255"`
	StudyWebsite     string `json:"studyURL" gorm:"size:255"`
}

func (*AnalyzerInfo) TableName() string {
	return "analyzer_infos"
}

////////////////////////
// TRIAL MODELS
////////////////////////

// Trial is one processed trial for one team member, joined with that
// member's survey scalars and strategy dwell summaries
type Trial struct {
	gorm.Model
	MemberID   string    `json:"memberId" gorm:"size:16;index:idx_trial_member_id"`
	SubjectID  string    `json:"subjectId" gorm:"size:16"`
	TrialID    string    `json:"trialId" gorm:"size:16;index:idx_trial_trial_id"`
	Complexity string    `json:"complexity" gorm:"size:16"` // Easy, Medium, Hard
	Training   string    `json:"training" gorm:"size:32"`
	StartTime  time.Time `json:"processedAt" gorm:"type:timestamptz"` // Wall time the trial was processed

	FinalScore      int             `json:"finalScore"`
	CompetencyScore sql.NullFloat64 `json:"competencyScore"` // NULL when no competency task data exists for the member

	// Survey scalars. NULL where the subject skipped the question.
	Workload             sql.NullInt64   `json:"workload"`
	OrigVictimStrategy   string          `json:"originalVictimStrategy" gorm:"size:32"`
	OrigNavStrategy      string          `json:"originalNavStrategy" gorm:"size:32"`
	VideogameExperience  sql.NullInt64   `json:"videogameExperience"`
	SatisficingQ7Average sql.NullFloat64 `json:"q7Average"`
	SatisficingQ8Average sql.NullFloat64 `json:"q8Average"`
	Q239                 sql.NullFloat64 `json:"q239"`

	VictimStrategyData datatypes.JSON `json:"victimStrategyData" gorm:"type:jsonb;default:'{}'"` // Per-strategy dwell time, score, points per minute
	NavStrategyData    datatypes.JSON `json:"navigationStrategyData" gorm:"type:jsonb;default:'{}'"`

	Events []TrialEvent `json:"-"`
}

func (*Trial) TableName() string {
	return "trials"
}

func (t *Trial) Get(db *gorm.DB) (err error) {
	err = db.Where(&t).Order(
		"created_at DESC",
	).First(&t).Error
	return err
}

// TrialEvent is one canonical event (room entry or successful triage)
// in a trial's reconstructed event stream
type TrialEvent struct {
	gorm.Model
	TrialID uint  `json:"trialId" gorm:"index:idx_trialevent_trial_id"`
	Trial   Trial `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:TrialID;"`

	Kind             string  `json:"event" gorm:"size:32;index:idx_trialevent_kind"` // room_entered or triage_successful
	Row              int     `json:"eventIndexNumber"`                               // Row index into the source message stream
	SecondsRemaining float64 `json:"secondsRemaining"`

	RoomID         string `json:"roomId" gorm:"size:8"`
	RoomName       string `json:"roomName" gorm:"size:64"`
	LastRoomID     string `json:"lastRoomId" gorm:"size:8"`
	NextRoomID     string `json:"nextRoomId" gorm:"size:8"`
	SanityRoomName string `json:"sanityRoomNameActual" gorm:"size:64"` // Room name resolved from the raw position, for cross-checks

	Position geom.Point `json:"position"` // Player position at the event row
	Score    int        `json:"score"`

	YellowInCurrentRoom int `json:"yellowVictimsInCurrentRoom"`
	GreenInCurrentRoom  int `json:"greenVictimsInCurrentRoom"`

	GreenSearchTime  sql.NullFloat64 `json:"greenSearchTime"` // Mean seconds between green sightings, NULL before the first
	YellowSearchTime sql.NullFloat64 `json:"yellowSearchTime"`

	// Room entry fields. Zero-valued on triage rows.
	ExitedRoomID      string          `json:"exitedRoomId" gorm:"size:8"`
	RoomType          int             `json:"roomType"`
	ExitedRoomType    sql.NullInt64   `json:"exitedRoomType"` // NULL on the first entry of the trial
	RoomsSkipped      datatypes.JSON  `json:"roomsSkipped" gorm:"type:jsonb;default:'[]'"` // Beeped-but-not-entered rooms since the last entry
	VictimsSeen       datatypes.JSON  `json:"victimsSeen" gorm:"type:jsonb;default:'[]'"`  // Victim block coordinates sighted since the last entry
	OpeningsSeen      bool            `json:"openingsSeen" gorm:"default:false"`
	LeftBehindGreen   int             `json:"leftBehindGreen"`
	LeftBehindYellow  int             `json:"leftBehindYellow"`
	RoomsEnteredEmpty int             `json:"roomsEnteredEmpty"`
	RoomsEnteredFull  int             `json:"roomsEnteredNotEmpty"`
	PriorConsistent   int             `json:"priorUseConsistent"`
	PriorInconsistent int             `json:"priorUseInconsistent"`
	NavStrategy       string          `json:"navStrategy" gorm:"size:32"`

	// Triage fields. Zero-valued on room entry rows.
	VictimColor          string          `json:"victimColor" gorm:"size:8"`
	VictimStrategy       string          `json:"victimStrategy" gorm:"size:32"`
	NextVictimDistance   sql.NullFloat64 `json:"nextVictimDistance"` // NULL after the last triage of the trial
	TotalYellowRemaining int             `json:"totalYellowVictimsRemaining"`
	YellowPerMinute      sql.NullFloat64 `json:"yellowPerMinute"`
	GreenPerMinute       sql.NullFloat64 `json:"greenPerMinute"`
	ExpectedGreenRate    sql.NullFloat64 `json:"expectedGreenRate"`
}

func (*TrialEvent) TableName() string {
	return "trial_events"
}

// TrialErrorRecord marks a trial file that could not be processed.
// A batch run continues past these.
type TrialErrorRecord struct {
	gorm.Model
	MemberID string `json:"memberId" gorm:"size:16;index:idx_trialerror_member_id"`
	TrialID  string `json:"trialId" gorm:"size:16"`
	File     string `json:"file" gorm:"size:255"`
	Reason   string `json:"reason" gorm:"size:255"`
}

func (*TrialErrorRecord) TableName() string {
	return "trial_errors"
}
