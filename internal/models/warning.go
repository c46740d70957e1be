package models

import "fmt"

// WarningKind classifies a recoverable conversion condition.
type WarningKind string

const (
	WarningUnknownTerrain  WarningKind = "unknown_terrain"
	WarningUnknownUnit     WarningKind = "unknown_unit"
	WarningUnknownTeam     WarningKind = "unknown_team"
	WarningUnitOutOfBounds WarningKind = "unit_out_of_bounds"
	WarningTrailingBytes   WarningKind = "trailing_bytes"
	WarningSkippedTile     WarningKind = "skipped_tile"
)

// Warning is a non-fatal condition recorded while converting one file.
// Index holds the raw legacy index (or byte count for trailing data).
type Warning struct {
	Kind  WarningKind `json:"kind" msgpack:"kind"`
	Index int         `json:"index" msgpack:"index"`
	X     int         `json:"x,omitempty" msgpack:"x,omitempty"`
	Y     int         `json:"y,omitempty" msgpack:"y,omitempty"`
}

func (w Warning) String() string {
	switch w.Kind {
	case WarningUnitOutOfBounds:
		return fmt.Sprintf("%s: unit type %d at (%d, %d)", w.Kind, w.Index, w.X, w.Y)
	case WarningTrailingBytes:
		return fmt.Sprintf("%s: %d bytes after unit list", w.Kind, w.Index)
	default:
		return fmt.Sprintf("%s: index %d", w.Kind, w.Index)
	}
}
