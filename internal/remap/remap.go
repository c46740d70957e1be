// Package remap translates legacy tile, unit and team indices into the web
// game's identifiers and infers building ownership.
package remap

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/ancient-empires/assetconv/internal/models"
	"github.com/ancient-empires/assetconv/internal/parser"
)

//go:embed defaults.yaml
var defaultTablesYAML []byte

// Lookup returns table[key], or def when the key is absent.
// The bool reports whether the key was present.
func Lookup[K comparable, V any](table map[K]V, key K, def V) (V, bool) {
	if v, ok := table[key]; ok {
		return v, true
	}
	return def, false
}

// Tables is a validated, read-only view of models.RemapTables.
// Safe for concurrent use once built.
type Tables struct {
	terrain     map[int]int
	units       map[int]string
	teams       map[int]models.Team
	defaults    models.RemapDefaults
	strongholds map[int]models.Stronghold
	leaders     map[string]struct{}
}

// New validates raw tables and indexes them for lookup.
func New(raw *models.RemapTables) (*Tables, error) {
	if raw == nil {
		return nil, fmt.Errorf("remap tables are nil")
	}
	t := &Tables{
		terrain:     raw.Terrain,
		units:       raw.Units,
		teams:       raw.Teams,
		defaults:    raw.Defaults,
		strongholds: make(map[int]models.Stronghold, len(raw.Strongholds)),
		leaders:     make(map[string]struct{}, len(raw.LeaderUnits)),
	}
	if t.terrain == nil {
		t.terrain = map[int]int{}
	}
	if t.units == nil {
		t.units = map[int]string{}
	}
	if len(t.teams) == 0 {
		t.teams = make(map[int]models.Team, models.TeamCount)
		for i, team := range models.Teams {
			t.teams[i] = team
		}
	}
	if t.defaults.Unit == "" {
		return nil, fmt.Errorf("remap tables: defaults.unit is required")
	}
	if t.defaults.Team == "" {
		t.defaults.Team = models.Teams[0]
	}

	for _, s := range raw.Strongholds {
		if s.Type == "" {
			return nil, fmt.Errorf("remap tables: stronghold terrain %d has no type", s.Terrain)
		}
		if _, dup := t.strongholds[s.Terrain]; dup {
			return nil, fmt.Errorf("remap tables: stronghold terrain %d listed twice", s.Terrain)
		}
		t.strongholds[s.Terrain] = s
	}
	for _, name := range raw.LeaderUnits {
		t.leaders[name] = struct{}{}
	}
	return t, nil
}

// Default returns the tables used by the reference conversion.
func Default() (*Tables, error) {
	raw, err := parser.ParseRemapTablesFromReader(bytes.NewReader(defaultTablesYAML))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded remap tables: %w", err)
	}
	return New(raw)
}

// Load reads tables from a YAML file, or returns Default when path is empty.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default()
	}
	raw, err := parser.ParseRemapTables(path)
	if err != nil {
		return nil, fmt.Errorf("loading remap tables %s: %w", path, err)
	}
	return New(raw)
}

// Terrain maps a raw tile index to a terrain id. Unknown indices return the
// default terrain and false.
func (t *Tables) Terrain(raw int) (int, bool) {
	return Lookup(t.terrain, raw, t.defaults.Terrain)
}

// Unit maps a raw unit index to a unit type.
func (t *Tables) Unit(raw int) (string, bool) {
	return Lookup(t.units, raw, t.defaults.Unit)
}

// Team maps a raw team index to a team.
func (t *Tables) Team(raw int) (models.Team, bool) {
	return Lookup(t.teams, raw, t.defaults.Team)
}

// Defaults returns the fallback identifiers.
func (t *Tables) Defaults() models.RemapDefaults {
	return t.defaults
}

// Stronghold reports whether a terrain id is an ownable building.
func (t *Tables) Stronghold(terrain int) (models.Stronghold, bool) {
	s, ok := t.strongholds[terrain]
	return s, ok
}

// IsLeader reports whether unitType is a leader unit.
func (t *Tables) IsLeader(unitType string) bool {
	_, ok := t.leaders[unitType]
	return ok
}

// InferOwner guesses the owner of the building at (x, y).
//
// Map files never store ownership. A leader standing on a leader-owned
// stronghold is taken to own it; every other building is neutral (nil).
// This is a best-effort heuristic and can disagree with the original game.
func (t *Tables) InferOwner(terrain, x, y int, units []models.MapUnit) *models.Team {
	s, ok := t.strongholds[terrain]
	if !ok || !s.LeaderOwned {
		return nil
	}
	for _, u := range units {
		if u.X == x && u.Y == y && t.IsLeader(u.Type) {
			team := u.Team
			return &team
		}
	}
	return nil
}
