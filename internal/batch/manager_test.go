package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ancient-empires/assetconv/internal/convert"
	"github.com/ancient-empires/assetconv/internal/logx"
	"github.com/ancient-empires/assetconv/internal/models"
	"github.com/ancient-empires/assetconv/internal/parser"
	"github.com/ancient-empires/assetconv/internal/remap"
	"github.com/ancient-empires/assetconv/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func writeMap(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func sampleBytes(t *testing.T) []byte {
	t.Helper()
	data, err := parser.MarshalMap(testutil.SampleMap())
	require.NoError(t, err)
	return data
}

func newManager(t *testing.T, store Store) *Manager {
	t.Helper()
	tables, err := remap.Default()
	require.NoError(t, err)
	return NewManager(store, tables, logx.Discard())
}

func defaultOptions(dirs ...string) Options {
	return Options{
		Dirs:        dirs,
		Extension:   ".aem",
		Format:      convert.FormatJSON,
		Workers:     3,
		MapListFile: "map_list.json",
		ReportFile:  "conversion_report.json",
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	campaign := filepath.Join(root, "campaign")
	writeMap(t, root, "b.aem", nil)
	writeMap(t, root, "a.AEM", nil)
	writeMap(t, root, "notes.txt", nil)
	writeMap(t, campaign, "c.aem", nil)

	files, missing, err := Discover([]string{root, filepath.Join(root, "nope"), campaign}, ".aem")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a.AEM"),
		filepath.Join(root, "b.aem"),
		filepath.Join(campaign, "c.aem"),
	}, files)
	assert.Equal(t, []string{filepath.Join(root, "nope")}, missing)
}

func TestManager_Run(t *testing.T) {
	root := t.TempDir()
	good := sampleBytes(t)

	writeMap(t, root, "first.aem", good)
	writeMap(t, root, "broken.aem", good[:20])
	writeMap(t, root, "trailing.aem", append(append([]byte(nil), good...), 1, 2))
	writeMap(t, filepath.Join(root, "campaign"), "first.aem", good)

	store := testutil.NewMemStore()
	mgr := newManager(t, store)

	job, err := mgr.Run(context.Background(), defaultOptions(root, filepath.Join(root, "campaign")))
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, job.Status)
	assert.Equal(t, 100.0, job.Progress)
	assert.Equal(t, 4, job.Total)
	assert.Equal(t, 4, job.Done)
	require.NotNil(t, job.CompletedAt)

	report := job.Report
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Converted)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"first.json", "trailing.json"}, report.MapList)

	// Files keep discovery order: root sorted by name, then campaign
	require.Len(t, report.Files, 4)
	byName := map[string]models.FileResult{}
	for _, f := range report.Files {
		byName[filepath.Base(filepath.Dir(f.Input))+"/"+filepath.Base(f.Input)] = f
	}

	broken := report.Files[0]
	assert.Equal(t, models.FileStatusError, broken.Status)
	assert.Contains(t, broken.Error, parser.ErrTruncatedInput.Error())
	assert.Empty(t, broken.Output)

	dup := byName["campaign/first.aem"]
	assert.Equal(t, models.FileStatusSkipped, dup.Status)
	assert.Contains(t, dup.Error, "first.json")

	trailing := report.Files[2]
	assert.Equal(t, models.FileStatusConverted, trailing.Status)
	assert.Equal(t, []models.Warning{{Kind: models.WarningTrailingBytes, Index: 2}}, trailing.Warnings)

	// Converted map
	data, ok := store.Data("first.json")
	require.True(t, ok)
	var conv models.ConvertedMap
	require.NoError(t, json.Unmarshal(data, &conv))
	assert.Equal(t, "first", conv.Name)
	assert.Equal(t, [][]int{{4, 3, 105}, {109, 101, 128}}, conv.MapData)

	// Map list and report
	data, ok = store.Data("map_list.json")
	require.True(t, ok)
	var list []string
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Equal(t, report.MapList, list)

	data, ok = store.Data("conversion_report.json")
	require.True(t, ok)
	var saved models.BatchReport
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, job.ID, saved.ID)
	assert.Equal(t, 1, saved.Failed)
}

func TestManager_RunAggregatesUnknownIndices(t *testing.T) {
	root := t.TempDir()
	m := &models.MapFile{
		Width:  2,
		Height: 1,
		Tiles:  [][]int16{{500, 500}},
		Units:  []models.UnitPlacement{{Team: 0, Type: 13, X: 0, Y: 0}},
	}
	data, err := parser.MarshalMap(m)
	require.NoError(t, err)
	writeMap(t, root, "one.aem", data)
	writeMap(t, root, "two.aem", data)

	mgr := newManager(t, testutil.NewMemStore())
	job, err := mgr.Run(context.Background(), defaultOptions(root))
	require.NoError(t, err)

	assert.Equal(t, map[int]int{500: 4}, job.Report.UnknownTerrain)
	assert.Equal(t, map[int]int{13: 2}, job.Report.UnknownUnits)
	assert.Empty(t, job.Report.UnknownTeams)
}

func TestManager_RunMsgpack(t *testing.T) {
	root := t.TempDir()
	writeMap(t, root, "packed.aem", sampleBytes(t))

	store := testutil.NewMemStore()
	opts := defaultOptions(root)
	opts.Format = convert.FormatMsgpack
	job, err := newManager(t, store).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"packed.msgpack"}, job.Report.MapList)

	data, ok := store.Data("packed.msgpack")
	require.True(t, ok)
	var conv models.ConvertedMap
	require.NoError(t, msgpack.Unmarshal(data, &conv))
	assert.Equal(t, "packed", conv.Name)
	require.Len(t, conv.Buildings, 1)
	require.NotNil(t, conv.Buildings[0].Team)
	assert.Equal(t, models.TeamBlue, *conv.Buildings[0].Team)
}

func TestManager_RunStopOnError(t *testing.T) {
	root := t.TempDir()
	writeMap(t, root, "a.aem", []byte{0, 5})

	opts := defaultOptions(root)
	opts.Workers = 1
	opts.StopOnError = true

	store := testutil.NewMemStore()
	job, err := newManager(t, store).Run(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrTruncatedInput))
	assert.Equal(t, StatusError, job.Status)
	require.NotNil(t, job.Report)
	assert.Equal(t, 1, job.Report.Failed)

	// The summary is still written
	_, ok := store.Data("conversion_report.json")
	assert.True(t, ok)
}

func TestManager_RunCancelled(t *testing.T) {
	root := t.TempDir()
	writeMap(t, root, "a.aem", sampleBytes(t))
	writeMap(t, root, "b.aem", sampleBytes(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job, err := newManager(t, testutil.NewMemStore()).Run(ctx, defaultOptions(root))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusError, job.Status)
	for _, f := range job.Report.Files {
		assert.Equal(t, models.FileStatusSkipped, f.Status)
	}
}

func TestManager_RunSaveFailure(t *testing.T) {
	root := t.TempDir()
	writeMap(t, root, "a.aem", sampleBytes(t))
	writeMap(t, root, "b.aem", sampleBytes(t))

	store := testutil.NewMemStore()
	store.FailOn["a.json"] = errors.New("disk full")

	job, err := newManager(t, store).Run(context.Background(), defaultOptions(root))
	require.NoError(t, err)
	assert.Equal(t, 1, job.Report.Converted)
	assert.Equal(t, 1, job.Report.Failed)
	assert.Contains(t, job.Report.Files[0].Error, "disk full")

	store.FailOn["map_list.json"] = errors.New("disk full")
	job, err = newManager(t, store).Run(context.Background(), defaultOptions(root))
	assert.Error(t, err)
	assert.Equal(t, StatusError, job.Status)
}

func TestManager_RunEmpty(t *testing.T) {
	store := testutil.NewMemStore()
	job, err := newManager(t, store).Run(context.Background(), defaultOptions(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, job.Status)
	assert.Empty(t, job.Report.MapList)

	data, ok := store.Data("map_list.json")
	require.True(t, ok)
	assert.Equal(t, "[]", string(bytes.TrimSpace(data)))
}
