// Package core contains the pure domain types for the trial analysis
// pipeline. Types here have no storage or transport dependencies so they
// can be shared between the reconstructor, the classifiers, and every
// storage backend.
package core

import "fmt"

// VictimColor is the triage color of a victim block.
type VictimColor string

const (
	Green  VictimColor = "Green"
	Yellow VictimColor = "Yellow"
)

// RoomType classifies a room by its remaining victims.
// 0 = empty, 1 = yellow only, 2 = green only, 3 = both.
type RoomType int

const (
	RoomEmpty      RoomType = 0
	RoomYellowOnly RoomType = 1
	RoomGreenOnly  RoomType = 2
	RoomBoth       RoomType = 3
)

// ClassifyRoom derives the RoomType from remaining victim counts.
func ClassifyRoom(yellow, green int) RoomType {
	switch {
	case yellow == 0 && green == 0:
		return RoomEmpty
	case yellow > 0 && green == 0:
		return RoomYellowOnly
	case yellow == 0 && green > 0:
		return RoomGreenOnly
	default:
		return RoomBoth
	}
}

// Position3D is a player or block position in world coordinates.
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// VictimID identifies a victim by its immutable block coordinates.
type VictimID struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (v VictimID) String() string {
	return fmt.Sprintf("%d_%d_%d", v.X, v.Y, v.Z)
}

// Less provides a stable ordering for deterministic output lists.
func (v VictimID) Less(o VictimID) bool {
	if v.X != o.X {
		return v.X < o.X
	}
	if v.Y != o.Y {
		return v.Y < o.Y
	}
	return v.Z < o.Z
}

// Difficulty is the map variant of a trial.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists all map variants in canonical order.
var Difficulties = []Difficulty{Easy, Medium, Hard}
