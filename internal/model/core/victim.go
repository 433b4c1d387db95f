package core

// Victim is one victim block from the ground-truth list, resolved to its
// ultimate parent room.
type Victim struct {
	ID    VictimID
	Color VictimColor
	Room  string

	// FirstSeen is the seconds-remaining value of the first field of
	// view sighting. Nil until the victim enters view; write once.
	FirstSeen *float64
}

// BlockColor maps a ground-truth block type to a victim color.
// block_victim_1 is green, block_victim_2 is yellow.
func BlockColor(blockType string) (VictimColor, bool) {
	switch blockType {
	case "block_victim_1":
		return Green, true
	case "block_victim_2":
		return Yellow, true
	default:
		return "", false
	}
}
