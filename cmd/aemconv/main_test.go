package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ancient-empires/assetconv/internal/parser"
	"github.com/ancient-empires/assetconv/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `<AssetConverter>
  <Input>
    <MapDirectories>maps</MapDirectories>
    <TileDirectory>tiles</TileDirectory>
    <UnitDirectory>units</UnitDirectory>
  </Input>
  <Output>
    <Directory>out</Directory>
  </Output>
  <Sprites>
    <OutputDirectory>sprites</OutputDirectory>
  </Sprites>
</AssetConverter>`

func setup(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	configPath = filepath.Join(dir, "aemconv.config.xml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "maps"), 0755))
	return dir, configPath
}

func writeSample(t *testing.T, path string) {
	t.Helper()
	data, err := parser.MarshalMap(testutil.SampleMap())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestRun_Maps(t *testing.T) {
	dir, cfg := setup(t)
	writeSample(t, filepath.Join(dir, "maps", "castle.aem"))

	var out bytes.Buffer
	code := run(context.Background(), []string{"-config", cfg, "maps"}, &out)
	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "Converted 1 maps, 0 failed")

	data, err := os.ReadFile(filepath.Join(dir, "out", "map_list.json"))
	require.NoError(t, err)
	var list []string
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Equal(t, []string{"castle.json"}, list)
	assert.FileExists(t, filepath.Join(dir, "out", "castle.json"))
	assert.FileExists(t, filepath.Join(dir, "out", "conversion_report.json"))

	// A broken map fails the run but the good one is still written
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maps", "broken.aem"), []byte{0, 1}, 0644))
	out.Reset()
	code = run(context.Background(), []string{"-config", cfg, "maps"}, &out)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "Converted 1 maps, 1 failed")
}

func TestRun_TilesAndUnits(t *testing.T) {
	dir, cfg := setup(t)
	tiles := filepath.Join(dir, "tiles")
	units := filepath.Join(dir, "units")
	require.NoError(t, os.MkdirAll(tiles, 0755))
	require.NoError(t, os.MkdirAll(units, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tiles, "tile_config.dat"), []byte("1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tiles, "tile_0.dat"), []byte("1 2 0 18 0 0 0 false false false false 7 false false"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(units, "unit_config.json"), []byte(`{"unit_count": 1}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(units, "unit_0.json"), []byte(`{"name": "soldier"}`), 0644))

	var out bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"-config", cfg, "tiles"}, &out), out.String())
	require.Equal(t, 0, run(context.Background(), []string{"-config", cfg, "units"}, &out), out.String())

	data, err := os.ReadFile(filepath.Join(dir, "out", "tiles.json"))
	require.NoError(t, err)
	var tileRecs []map[string]any
	require.NoError(t, json.Unmarshal(data, &tileRecs))
	require.Len(t, tileRecs, 1)
	assert.Equal(t, 7.0, tileRecs[0]["mini_map_index"])

	data, err = os.ReadFile(filepath.Join(dir, "out", "units.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"soldier"`)
}

func TestRun_Inspect(t *testing.T) {
	dir, cfg := setup(t)
	path := filepath.Join(dir, "maps", "castle.aem")
	writeSample(t, path)

	var out bytes.Buffer
	code := run(context.Background(), []string{"-config", cfg, "inspect", path}, &out)
	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "Size:        3x2")
	assert.Contains(t, out.String(), "Buildings:   1")

	out.Reset()
	assert.Equal(t, 1, run(context.Background(), []string{"-config", cfg, "inspect"}, &out))
}

func TestRun_Usage(t *testing.T) {
	_, cfg := setup(t)
	var out bytes.Buffer

	assert.Equal(t, 2, run(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "usage: aemconv")

	out.Reset()
	assert.Equal(t, 2, run(context.Background(), []string{"-config", cfg, "bogus"}, &out))
	assert.Contains(t, out.String(), `unknown command "bogus"`)

	assert.Equal(t, 2, run(context.Background(), []string{"-nope"}, &out))
}
