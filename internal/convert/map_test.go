package convert

import (
	"testing"

	"github.com/ancient-empires/assetconv/internal/models"
	"github.com/ancient-empires/assetconv/internal/remap"
	"github.com/ancient-empires/assetconv/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTables(t *testing.T) *remap.Tables {
	t.Helper()
	tables, err := remap.Default()
	require.NoError(t, err)
	return tables
}

func TestMap_Sample(t *testing.T) {
	res := Map("sample", testutil.SampleMap(), defaultTables(t))
	out := res.Map

	assert.Equal(t, "sample", out.Name)
	assert.Equal(t, "tester", out.Author)
	assert.Equal(t, []bool{true, true, false, false}, out.TeamAccess)
	assert.Equal(t, 3, out.Width)
	assert.Equal(t, 2, out.Height)
	assert.Equal(t, [][]int{{4, 3, 105}, {109, 101, 128}}, out.MapData)

	assert.Equal(t, []models.MapUnit{
		{Type: "king", Team: models.TeamBlue, X: 0, Y: 0},
		{Type: "soldier", Team: models.TeamRed, X: 2, Y: 1},
	}, out.Units)

	blue := models.TeamBlue
	assert.Equal(t, []models.Building{{Type: "castle", Team: &blue, X: 0, Y: 0}}, out.Buildings)

	assert.Empty(t, res.Warnings)
	assert.True(t, res.Audit.Empty())
}

func TestMap_Buildings(t *testing.T) {
	m := &models.MapFile{
		Width:  4,
		Height: 1,
		Tiles:  [][]int16{{39, 41, 30, 36}},
		Units: []models.UnitPlacement{
			{Team: 1, Type: 0, X: 0, Y: 0}, // soldier on a castle
			{Team: 2, Type: 9, X: 1, Y: 0}, // king on a castle
			{Team: 3, Type: 9, X: 2, Y: 0}, // king on a village
		},
	}

	res := Map("buildings", m, defaultTables(t))

	green := models.TeamGreen
	assert.Equal(t, []models.Building{
		{Type: "castle", Team: nil, X: 0, Y: 0},
		{Type: "castle", Team: &green, X: 1, Y: 0},
		{Type: "village", Team: nil, X: 2, Y: 0},
		{Type: "town", Team: nil, X: 3, Y: 0},
	}, res.Map.Buildings)
}

func TestMap_UnknownIndices(t *testing.T) {
	m := &models.MapFile{
		Width:  3,
		Height: 2,
		Tiles: [][]int16{
			{500, 18, 500},
			{501, 500, -1},
		},
		Units: []models.UnitPlacement{
			{Team: 9, Type: 13, X: 0, Y: 0},
			{Team: 0, Type: 13, X: 1, Y: 1},
			{Team: 1, Type: 0, X: 5, Y: 0},
		},
	}

	res := Map("unknown", m, defaultTables(t))

	// Unknown terrain becomes plain
	assert.Equal(t, [][]int{{0, 0, 0}, {0, 0, 0}}, res.Map.MapData)
	assert.Equal(t, "soldier", res.Map.Units[0].Type)
	assert.Equal(t, models.TeamBlue, res.Map.Units[0].Team)

	// One warning per distinct index, first occurrence
	assert.Equal(t, []models.Warning{
		{Kind: models.WarningUnknownTerrain, Index: 500, X: 0, Y: 0},
		{Kind: models.WarningUnknownTerrain, Index: 501, X: 0, Y: 1},
		{Kind: models.WarningUnknownTerrain, Index: -1, X: 2, Y: 1},
		{Kind: models.WarningUnknownUnit, Index: 13, X: 0, Y: 0},
		{Kind: models.WarningUnknownTeam, Index: 9, X: 0, Y: 0},
		{Kind: models.WarningUnitOutOfBounds, Index: 0, X: 5, Y: 0},
	}, res.Warnings)

	// The audit counts every occurrence
	assert.Equal(t, map[int]int{500: 3, 501: 1, -1: 1}, res.Audit.Terrain)
	assert.Equal(t, map[int]int{13: 2}, res.Audit.Units)
	assert.Equal(t, map[int]int{9: 1}, res.Audit.Teams)

	// Out-of-bounds units are kept
	assert.Len(t, res.Map.Units, 3)
}

func TestMap_EmptyListsNotNil(t *testing.T) {
	m := &models.MapFile{Width: 1, Height: 1, Tiles: [][]int16{{18}}}

	res := Map("empty", m, defaultTables(t))
	assert.NotNil(t, res.Map.Units)
	assert.NotNil(t, res.Map.Buildings)
}
