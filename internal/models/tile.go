package models

import "encoding/json"

// CapturedTileCount is the fixed length of a capturable tile's
// per-team replacement list.
const CapturedTileCount = 5

// TileDefinition is one tile_<n>.dat record.
// Flag-then-payload fields are optional: a nil pointer means the flag was
// false and no payload followed it.
type TileDefinition struct {
	Index        int
	DefenceBonus int
	StepCost     int
	HPRecovery   int
	Type         int
	TopTileIndex int
	Team         int
	AccessTiles  []int

	CapturedTiles *[CapturedTileCount]int16
	DestroyedTile *int16
	RepairedTile  *int16
	AnimationTile *int16

	MiniMapIndex int
	IsCastle     bool
	IsVillage    bool
	// IsTemple is false when the trailing flag is missing from the file.
	IsTemple     bool
}

func (t *TileDefinition) IsCapturable() bool  { return t.CapturedTiles != nil }
func (t *TileDefinition) IsDestroyable() bool { return t.DestroyedTile != nil }
func (t *TileDefinition) IsRepairable() bool  { return t.RepairedTile != nil }
func (t *TileDefinition) IsAnimated() bool    { return t.AnimationTile != nil }

// tileRecord is the flat tiles.json shape consumed by the web game.
type tileRecord struct {
	Index              int     `json:"index"`
	DefenceBonus       int     `json:"defence_bonus"`
	StepCost           int     `json:"step_cost"`
	HPRecovery         int     `json:"hp_recovery"`
	Type               int     `json:"type"`
	TopTileIndex       int     `json:"top_tile_index"`
	Team               int     `json:"team"`
	AccessTileList     []int   `json:"access_tile_list,omitempty"`
	IsCapturable       bool    `json:"is_capturable"`
	CapturedTileList   []int16 `json:"captured_tile_list,omitempty"`
	IsDestroyable      bool    `json:"is_destroyable"`
	DestroyedTileIndex *int16  `json:"destroyed_tile_index,omitempty"`
	IsRepairable       bool    `json:"is_repairable"`
	RepairedTileIndex  *int16  `json:"repaired_tile_index,omitempty"`
	IsAnimated         bool    `json:"is_animated"`
	AnimationTileIndex *int16  `json:"animation_tile_index,omitempty"`
	MiniMapIndex       int     `json:"mini_map_index"`
	IsCastle           bool    `json:"is_castle"`
	IsVillage          bool    `json:"is_village"`
	IsTemple           bool    `json:"is_temple"`
}

// MarshalJSON flattens the optional payloads back into the
// flag + value layout used by tiles.json.
func (t TileDefinition) MarshalJSON() ([]byte, error) {
	rec := tileRecord{
		Index:              t.Index,
		DefenceBonus:       t.DefenceBonus,
		StepCost:           t.StepCost,
		HPRecovery:         t.HPRecovery,
		Type:               t.Type,
		TopTileIndex:       t.TopTileIndex,
		Team:               t.Team,
		AccessTileList:     t.AccessTiles,
		IsCapturable:       t.IsCapturable(),
		IsDestroyable:      t.IsDestroyable(),
		DestroyedTileIndex: t.DestroyedTile,
		IsRepairable:       t.IsRepairable(),
		RepairedTileIndex:  t.RepairedTile,
		IsAnimated:         t.IsAnimated(),
		AnimationTileIndex: t.AnimationTile,
		MiniMapIndex:       t.MiniMapIndex,
		IsCastle:           t.IsCastle,
		IsVillage:          t.IsVillage,
		IsTemple:           t.IsTemple,
	}
	if t.CapturedTiles != nil {
		rec.CapturedTileList = t.CapturedTiles[:]
	}
	return json.Marshal(rec)
}
