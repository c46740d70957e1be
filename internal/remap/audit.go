package remap

import "github.com/ancient-empires/assetconv/internal/models"

// Audit counts raw indices that fell back to a default. It is not safe
// for concurrent use; give each file its own Audit and Merge them.
type Audit struct {
	Terrain map[int]int
	Units   map[int]int
	Teams   map[int]int
}

// NewAudit returns an empty audit.
func NewAudit() *Audit {
	return &Audit{
		Terrain: make(map[int]int),
		Units:   make(map[int]int),
		Teams:   make(map[int]int),
	}
}

// Record counts one occurrence of an unknown-index warning. Other warning
// kinds are ignored.
func (a *Audit) Record(w models.Warning) {
	switch w.Kind {
	case models.WarningUnknownTerrain:
		a.Terrain[w.Index]++
	case models.WarningUnknownUnit:
		a.Units[w.Index]++
	case models.WarningUnknownTeam:
		a.Teams[w.Index]++
	}
}

// Merge adds other's counts into a.
func (a *Audit) Merge(other *Audit) {
	for k, n := range other.Terrain {
		a.Terrain[k] += n
	}
	for k, n := range other.Units {
		a.Units[k] += n
	}
	for k, n := range other.Teams {
		a.Teams[k] += n
	}
}

// Empty reports whether nothing was recorded.
func (a *Audit) Empty() bool {
	return len(a.Terrain) == 0 && len(a.Units) == 0 && len(a.Teams) == 0
}
