package convert

import (
	"path/filepath"

	"github.com/ancient-empires/assetconv/internal/models"
	"github.com/ancient-empires/assetconv/internal/parser"
)

// TileConfigFile is the name of the tile index file in a tile data directory.
const TileConfigFile = "tile_config.dat"

// TileFailure records a tile definition that could not be parsed.
type TileFailure struct {
	Index int
	Err   error
}

// Tiles parses every tile_<n>.dat listed by tile_config.dat in dir.
// A tile that fails to parse is reported and skipped; the rest are kept.
func Tiles(dir string) ([]*models.TileDefinition, []TileFailure, error) {
	count, err := parser.ParseTileConfig(filepath.Join(dir, TileConfigFile))
	if err != nil {
		return nil, nil, err
	}

	tiles := make([]*models.TileDefinition, 0, count)
	var failures []TileFailure
	for i := 0; i < count; i++ {
		t, err := parser.ParseTileDefinitionFile(parser.TileDefinitionPath(dir, i), i)
		if err != nil {
			failures = append(failures, TileFailure{Index: i, Err: err})
			continue
		}
		tiles = append(tiles, t)
	}
	return tiles, failures, nil
}
