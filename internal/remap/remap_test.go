package remap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ancient-empires/assetconv/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	table := map[int]string{5: "forest"}

	v, ok := Lookup(table, 5, "plain")
	assert.True(t, ok)
	assert.Equal(t, "forest", v)

	v, ok = Lookup(table, 999, "plain")
	assert.False(t, ok)
	assert.Equal(t, "plain", v)

	v, ok = Lookup(map[int]string(nil), 5, "plain")
	assert.False(t, ok)
	assert.Equal(t, "plain", v)
}

func TestDefault(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	t.Run("terrain is many-to-one", func(t *testing.T) {
		for _, raw := range []int{37, 39, 41, 43, 45} {
			terrain, ok := tables.Terrain(raw)
			assert.True(t, ok, "raw %d", raw)
			assert.Equal(t, 4, terrain, "raw %d", raw)
		}
	})

	t.Run("unknown terrain falls back to plain", func(t *testing.T) {
		terrain, ok := tables.Terrain(999)
		assert.False(t, ok)
		assert.Equal(t, 0, terrain)
	})

	t.Run("units", func(t *testing.T) {
		unit, ok := tables.Unit(9)
		assert.True(t, ok)
		assert.Equal(t, "king", unit)

		unit, ok = tables.Unit(13)
		assert.False(t, ok)
		assert.Equal(t, "soldier", unit)
	})

	t.Run("teams", func(t *testing.T) {
		team, ok := tables.Team(3)
		assert.True(t, ok)
		assert.Equal(t, models.TeamBlack, team)

		team, ok = tables.Team(7)
		assert.False(t, ok)
		assert.Equal(t, models.TeamBlue, team)
	})

	t.Run("strongholds", func(t *testing.T) {
		s, ok := tables.Stronghold(4)
		require.True(t, ok)
		assert.Equal(t, "castle", s.Type)
		assert.True(t, s.LeaderOwned)

		s, ok = tables.Stronghold(5)
		require.True(t, ok)
		assert.Equal(t, "village", s.Type)
		assert.False(t, s.LeaderOwned)

		_, ok = tables.Stronghold(0)
		assert.False(t, ok)
	})

	assert.True(t, tables.IsLeader("king"))
	assert.False(t, tables.IsLeader("soldier"))
}

func TestNew(t *testing.T) {
	t.Run("fills teams and default team", func(t *testing.T) {
		tables, err := New(&models.RemapTables{Defaults: models.RemapDefaults{Unit: "soldier"}})
		require.NoError(t, err)

		team, ok := tables.Team(1)
		assert.True(t, ok)
		assert.Equal(t, models.TeamRed, team)
		assert.Equal(t, models.TeamBlue, tables.Defaults().Team)
	})

	t.Run("requires a default unit", func(t *testing.T) {
		_, err := New(&models.RemapTables{})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate strongholds", func(t *testing.T) {
		_, err := New(&models.RemapTables{
			Defaults: models.RemapDefaults{Unit: "soldier"},
			Strongholds: []models.Stronghold{
				{Terrain: 4, Type: "castle"},
				{Terrain: 4, Type: "keep"},
			},
		})
		assert.Error(t, err)
	})

	t.Run("rejects untyped strongholds", func(t *testing.T) {
		_, err := New(&models.RemapTables{
			Defaults:    models.RemapDefaults{Unit: "soldier"},
			Strongholds: []models.Stronghold{{Terrain: 4}},
		})
		assert.Error(t, err)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)
	unit, _ := tables.Unit(0)
	assert.Equal(t, "soldier", unit)

	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terrain: {5: 1}\ndefaults: {terrain: 0, unit: scout}\n"), 0644))

	tables, err = Load(path)
	require.NoError(t, err)
	terrain, ok := tables.Terrain(5)
	assert.True(t, ok)
	assert.Equal(t, 1, terrain)
	unit, ok = tables.Unit(0)
	assert.False(t, ok)
	assert.Equal(t, "scout", unit)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// Ownership inference is a heuristic: these cases pin down its behaviour,
// not what the original game would have decided.
func TestInferOwner(t *testing.T) {
	tables, err := Default()
	require.NoError(t, err)

	units := []models.MapUnit{
		{Type: "king", Team: models.TeamRed, X: 2, Y: 3},
		{Type: "soldier", Team: models.TeamGreen, X: 4, Y: 4},
		{Type: "king", Team: models.TeamBlack, X: 6, Y: 1},
	}

	cases := []struct {
		name    string
		terrain int
		x, y    int
		want    *models.Team
	}{
		{"leader on castle", 4, 2, 3, ptr(models.TeamRed)},
		{"non-leader on castle", 4, 4, 4, nil},
		{"empty castle", 4, 0, 0, nil},
		{"leader on village stays neutral", 5, 6, 1, nil},
		{"leader on town stays neutral", 136, 6, 1, nil},
		{"leader on plain", 0, 2, 3, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tables.InferOwner(tc.terrain, tc.x, tc.y, units))
		})
	}
}

func ptr(team models.Team) *models.Team {
	return &team
}
