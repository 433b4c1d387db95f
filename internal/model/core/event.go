package core

// EventKind is one of the two canonical event kinds the pipeline emits.
type EventKind string

const (
	RoomEntered   EventKind = "room_entered"
	VictimTriaged EventKind = "victim_triaged"
)

// CanonicalEvent is one fully annotated row of the derived event stream.
// Only fields relevant to the event's kind are populated; the rest keep
// their zero value. Immutable once the reconstructor emits it, except
// for the strategy annotations added by the classifier pass.
type CanonicalEvent struct {
	Kind EventKind `json:"event"`

	// Row is the record index in the normalized raw stream.
	Row              int     `json:"event_index_number"`
	SecondsRemaining float64 `json:"seconds_remaining"`

	// Room context, forward and back filled over the raw stream.
	RoomID     string `json:"room_id"`
	RoomName   string `json:"room_name"`
	LastRoomID string `json:"last_room_id,omitempty"`
	NextRoomID string `json:"next_room_id,omitempty"`

	// SanityRoomName is the room name resolved from the raw location
	// stream, kept for cross-checking against RoomID.
	SanityRoomName string `json:"sanity_room_name_actual,omitempty"`

	Position Position3D `json:"position"`
	Score    int        `json:"score"`

	// Current state of the room the event happened in.
	YellowInCurrentRoom int `json:"yellow_victims_in_current_room"`
	GreenInCurrentRoom  int `json:"green_victims_in_current_room"`

	// Average seconds between first sightings, per color, as of this
	// event. Nil until enough sightings exist.
	GreenSearchTime  *float64 `json:"green_search_time"`
	YellowSearchTime *float64 `json:"yellow_search_time"`

	// RoomEntered fields.
	ExitedRoomID       string        `json:"exited_room_id,omitempty"`
	RoomType           RoomType      `json:"room_type,omitempty"`
	ExitedRoomType     *RoomType     `json:"exited_room_type,omitempty"`
	RoomsSkipped       []SkippedRoom `json:"rooms_skipped,omitempty"`
	VictimsSeen        []VictimID    `json:"victims_seen,omitempty"`
	OpeningsSeen       bool          `json:"openings_seen,omitempty"`
	LeftBehindGreen    int           `json:"left_behind_green,omitempty"`
	LeftBehindYellow   int           `json:"left_behind_yellow,omitempty"`
	RoomsEnteredEmpty  int           `json:"rooms_entered_empty,omitempty"`
	RoomsEnteredFull   int           `json:"rooms_entered_not_empty,omitempty"`
	PriorConsistent    int           `json:"prior_use_consistent,omitempty"`
	PriorInconsistent  int           `json:"prior_use_inconsistent,omitempty"`
	NavigationStrategy Strategy      `json:"nav_strategy,omitempty"`

	// VictimTriaged fields.
	VictimColor          VictimColor `json:"victim_color,omitempty"`
	VictimStrategy       Strategy    `json:"victim_strategy,omitempty"`
	NextVictimDistance   *float64    `json:"next_victim_distance,omitempty"`
	TotalYellowRemaining int         `json:"total_yellow_victims_remaining,omitempty"`
	YellowPerMinute      *float64    `json:"yellow_per_minute,omitempty"`
	GreenPerMinute       *float64    `json:"green_per_minute,omitempty"`
	ExpectedGreenRate    *float64    `json:"expected_green_rate,omitempty"`
}
