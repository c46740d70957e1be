// Package convert turns decoded legacy assets into the web game's records.
package convert

import (
	"github.com/ancient-empires/assetconv/internal/models"
	"github.com/ancient-empires/assetconv/internal/remap"
)

// Result is the outcome of converting one map.
// Warnings holds one entry per distinct unknown index (with the first
// cell it was seen at) and every out-of-bounds unit; Audit counts every
// occurrence.
type Result struct {
	Map      *models.ConvertedMap
	Warnings []models.Warning
	Audit    *remap.Audit
}

type warningKey struct {
	kind  models.WarningKind
	index int
}

type collector struct {
	res  *Result
	seen map[warningKey]struct{}
}

func (c *collector) unknown(kind models.WarningKind, index, x, y int) {
	w := models.Warning{Kind: kind, Index: index, X: x, Y: y}
	c.res.Audit.Record(w)
	key := warningKey{kind, index}
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.res.Warnings = append(c.res.Warnings, w)
}

// Map converts a decoded map. Raw indices pass through the decoder
// untouched; tables is the only place they are interpreted.
func Map(name string, m *models.MapFile, tables *remap.Tables) *Result {
	c := &collector{
		res:  &Result{Audit: remap.NewAudit()},
		seen: make(map[warningKey]struct{}),
	}

	out := &models.ConvertedMap{
		Name:       name,
		Author:     m.Author,
		TeamAccess: append([]bool(nil), m.TeamAccess[:]...),
		Width:      m.Width,
		Height:     m.Height,
		MapData:    make([][]int, m.Height),
		Units:      make([]models.MapUnit, 0, len(m.Units)),
		Buildings:  make([]models.Building, 0),
	}

	for y, row := range m.Tiles {
		out.MapData[y] = make([]int, len(row))
		for x, raw := range row {
			terrain, ok := tables.Terrain(int(raw))
			if !ok {
				c.unknown(models.WarningUnknownTerrain, int(raw), x, y)
			}
			out.MapData[y][x] = terrain
		}
	}

	for _, u := range m.Units {
		unitType, ok := tables.Unit(u.Type)
		if !ok {
			c.unknown(models.WarningUnknownUnit, u.Type, u.X, u.Y)
		}
		team, ok := tables.Team(u.Team)
		if !ok {
			c.unknown(models.WarningUnknownTeam, u.Team, u.X, u.Y)
		}
		if !m.InBounds(u.X, u.Y) {
			c.res.Warnings = append(c.res.Warnings, models.Warning{
				Kind:  models.WarningUnitOutOfBounds,
				Index: u.Type,
				X:     u.X,
				Y:     u.Y,
			})
		}
		out.Units = append(out.Units, models.MapUnit{Type: unitType, Team: team, X: u.X, Y: u.Y})
	}

	for y, row := range out.MapData {
		for x, terrain := range row {
			s, ok := tables.Stronghold(terrain)
			if !ok {
				continue
			}
			out.Buildings = append(out.Buildings, models.Building{
				Type: s.Type,
				Team: tables.InferOwner(terrain, x, y, out.Units),
				X:    x,
				Y:    y,
			})
		}
	}

	c.res.Map = out
	return c.res
}
