package sprites

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ManifestFile is the name the manifest is saved under in a sprite directory.
const ManifestFile = "manifest.json"

// Manifest groups sprite file names by what the client uses them for.
type Manifest struct {
	Units     []string `json:"units"`
	Terrain   []string `json:"terrain"`
	Particles []string `json:"particles"`
	Icons     []string `json:"icons"`
	UI        []string `json:"ui"`
	Misc      []string `json:"misc"`
}

var uiSprites = map[string]bool{
	"button_regular_down.png":    true,
	"button_regular_up.png":      true,
	"border.png":                 true,
	"background_scroll_pane.png": true,
	"background_text_field.png":  true,
	"list_selection.png":         true,
	"text_field_cursor.png":      true,
	"text_field_selection.png":   true,
	"cursor_normal.png":          true,
	"cursor_attack.png":          true,
	"cursor_target.png":          true,
}

// numbered reports whether name is prefix followed by a digit, e.g. "u3.png".
func numbered(name string, prefix byte) bool {
	return len(name) > 1 && name[0] == prefix && name[1] >= '0' && name[1] <= '9'
}

// BuildManifest categorises PNG file names. Non-PNG names are ignored, as
// are unit frame slices such as u0_1.png. Each list is ordered by name
// length, then name, so u2 sorts before u10.
func BuildManifest(names []string) *Manifest {
	m := &Manifest{
		Units:     []string{},
		Terrain:   []string{},
		Particles: []string{},
		Icons:     []string{},
		UI:        []string{},
		Misc:      []string{},
	}

	for _, name := range names {
		if !strings.HasSuffix(name, ".png") {
			continue
		}
		switch {
		case numbered(name, 'u'):
			if !strings.Contains(name, "_") {
				m.Units = append(m.Units, name)
			}
		case numbered(name, 't'):
			m.Terrain = append(m.Terrain, name)
		case numbered(name, 'p'):
			m.Particles = append(m.Particles, name)
		case strings.HasPrefix(name, "icons_"):
			m.Icons = append(m.Icons, name)
		case uiSprites[name]:
			m.UI = append(m.UI, name)
		default:
			m.Misc = append(m.Misc, name)
		}
	}

	for _, list := range [][]string{m.Units, m.Terrain, m.Particles, m.Icons, m.UI, m.Misc} {
		sort.Slice(list, func(i, j int) bool {
			if len(list[i]) != len(list[j]) {
				return len(list[i]) < len(list[j])
			}
			return list[i] < list[j]
		})
	}
	return m
}

// ScanManifest builds a manifest from the files in dir.
func ScanManifest(dir string) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sprite directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return BuildManifest(names), nil
}
