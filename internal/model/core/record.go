package core

// Topic strings as they appear in the trial message bus dump.
const (
	TopicLocation    = "observations/events/player/location"
	TopicTriage      = "observations/events/player/triage"
	TopicBeep        = "observations/events/player/beep"
	TopicScoreboard  = "observations/events/scoreboard"
	TopicMission     = "observations/events/mission"
	TopicState       = "observations/state"
	TopicFoVSummary  = "agent/pygl_fov/player/3d/summary"
	TopicVictimList  = "ground_truth/mission/victims_list"
	TopicVictimsDead = "ground_truth/mission/victims_expired"
)

// FoVBlock is one visible block reported in a field-of-view summary.
type FoVBlock struct {
	Type     string
	Location VictimID
}

// VictimBlock is one entry of the ground-truth victim list.
type VictimBlock struct {
	BlockType string
	X, Y, Z   int
	RoomName  string
}

// Record is one decoded and normalized trial message. Fields are sparse:
// each topic populates only its own slice of the struct, and the decoder
// forward-fills position and timer fields across gaps so downstream
// passes can read them from any row.
type Record struct {
	Index int
	Topic string

	// Player state, forward-filled. Nil until the first state message.
	X *float64
	Y *float64
	Z *float64

	// Mission timer, forward-filled. SecondsRemaining is derived from
	// the "MM : SS" timer string and forward-filled independently.
	MissionTimer     string
	SecondsRemaining *float64

	// Location topic. LocationID is the raw area id reported by the
	// simulator ("" when the message had no locations block).
	// Misfire marks a location message that carried only connection
	// data; the decoder tracks these for triage-position correction.
	LocationID string
	Misfire    bool

	// Triage topic.
	TriageState string
	TriageColor VictimColor
	VictimX     *int
	VictimY     *int
	VictimZ     *int

	// Score carried by a SUCCESSFUL triage row after the reverse
	// scoreboard backfill.
	Score *int

	// Scoreboard topic, god accounts already removed.
	Scoreboard map[string]int

	// Beep topic. Beeps is 1 for "Beep" (green), 2 for "Beep Beep"
	// (yellow), 0 for anything else.
	BeepMessage string
	BeepX       *float64
	BeepZ       *float64
	Beeps       int

	// Field-of-view summary topic.
	Blocks []FoVBlock

	// Mission topic.
	MissionState string

	// Ground truth topics.
	ExpiredMessage string
	VictimList     []VictimBlock
}

// HasPosition reports whether forward-filled coordinates are available.
func (r *Record) HasPosition() bool {
	return r.X != nil && r.Y != nil && r.Z != nil
}

// TriageSuccessful reports whether this row is a completed triage.
func (r *Record) TriageSuccessful() bool {
	return r.TriageState == "SUCCESSFUL"
}
