// Package semantic builds the per-difficulty spatial index from the
// semantic map files and the beep trigger point tables. The index is
// built once per trial and read-only afterward.
package semantic

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/GallupGovt/ASIST/internal/geo"
	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/GallupGovt/ASIST/internal/util"
)

// semanticMap mirrors the Falcon_v1.0_{difficulty}_sm.json layout.
type semanticMap struct {
	Locations []struct {
		ID             string   `json:"id"`
		Name           string   `json:"name"`
		Type           string   `json:"type"`
		ChildLocations []string `json:"child_locations"`
		Bounds         *struct {
			Coordinates []struct {
				X int `json:"x"`
				Z int `json:"z"`
			} `json:"coordinates"`
		} `json:"bounds"`
	} `json:"locations"`
}

// LoadIndex reads the semantic map and trigger table for one difficulty
// from mapDir and builds the spatial index.
func LoadIndex(mapDir string, difficulty core.Difficulty) (*Index, error) {
	mapPath := filepath.Join(mapDir, fmt.Sprintf("Falcon_v1.0_%s_sm.json", difficulty))
	f, err := os.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("error opening semantic map: %w", err)
	}
	defer f.Close()

	triggerPath := filepath.Join(mapDir, fmt.Sprintf("MapInfo_%s.csv", difficulty))
	tf, err := os.Open(triggerPath)
	if err != nil {
		return nil, fmt.Errorf("error opening trigger table: %w", err)
	}
	defer tf.Close()

	return BuildIndex(f, tf)
}

// BuildIndex parses the semantic map JSON and the trigger point CSV and
// rasterizes them into an Index.
func BuildIndex(mapReader, triggerReader io.Reader) (*Index, error) {
	var sm semanticMap
	if err := json.NewDecoder(mapReader).Decode(&sm); err != nil {
		return nil, fmt.Errorf("error decoding semantic map: %w", err)
	}

	ix := newIndex()

	// First pass: rooms and the child -> parent map.
	for _, loc := range sm.Locations {
		room := core.Room{ID: loc.ID, Name: loc.Name, Type: loc.Type}
		if len(loc.ChildLocations) > 0 {
			room.Children = append(room.Children, loc.ChildLocations...)
			for _, child := range loc.ChildLocations {
				ix.parents[child] = loc.ID
			}
		} else if loc.Bounds != nil && len(loc.Bounds.Coordinates) >= 2 {
			room.X1 = loc.Bounds.Coordinates[0].X
			room.Z1 = loc.Bounds.Coordinates[0].Z
			room.X2 = loc.Bounds.Coordinates[1].X
			room.Z2 = loc.Bounds.Coordinates[1].Z
			room.HasBound = true
		}
		ix.rooms[room.ID] = room
	}

	// Collapse nested parents so every child resolves to its ultimate
	// parent in a single hop.
	for child, parent := range ix.parents {
		if grand, ok := ix.parents[parent]; ok {
			ix.parents[child] = grand
		}
	}

	// Rasterize every bounded room into the coordinate grid in room id
	// order. Overlaps are last-write-wins, so a cell shared by two
	// rectangles always resolves to the lexically greater room id.
	ids := make([]string, 0, len(ix.rooms))
	for id := range ix.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		room := ix.rooms[id]
		if !room.HasBound {
			continue
		}
		parent := ix.ResolveParent(room.ID)
		rect := geo.NewRoomRect(room.X1, room.X2, room.Z1, room.Z2)
		rect.Cells(func(c geo.Cell) {
			cell := ix.cells[c]
			cell.Room = parent
			ix.cells[c] = cell
		})
	}

	if err := ix.overlayTriggers(triggerReader); err != nil {
		return nil, err
	}

	// The right hallway is excluded from trigger detection by policy:
	// its beep point sits on a main traversal path and fires on every
	// pass.
	ix.removeTriggerRoom("rh")

	return ix, nil
}

// overlayTriggers reads the MapInfo CSV (columns RoomName, LocationXYZ)
// and marks trigger cells on the grid.
func (ix *Index) overlayTriggers(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("error reading trigger table header: %w", err)
	}
	nameCol, locCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "RoomName":
			nameCol = i
		case "LocationXYZ":
			locCol = i
		}
	}
	if nameCol < 0 || locCol < 0 {
		return fmt.Errorf("trigger table missing RoomName/LocationXYZ columns")
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading trigger table row: %w", err)
		}
		name := util.NormalizeRoomName(strings.TrimSpace(row[nameCol]))
		ix.addSanityRoom(name)

		parts := strings.Fields(row[locCol])
		if len(parts) != 3 {
			return fmt.Errorf("malformed trigger location %q", row[locCol])
		}
		x, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("malformed trigger x %q: %w", parts[0], err)
		}
		z, err := strconv.Atoi(parts[2])
		if err != nil {
			return fmt.Errorf("malformed trigger z %q: %w", parts[2], err)
		}

		roomID, ok := ix.RoomIDByName(name)
		if !ok {
			// Trigger points for rooms absent from the semantic map
			// carry no usable spatial meaning.
			continue
		}
		cell := ix.cells[geo.Cell{X: x, Z: z}]
		cell.Trigger = roomID
		ix.cells[geo.Cell{X: x, Z: z}] = cell
		ix.triggerRooms[roomID] = true
	}
	return nil
}
