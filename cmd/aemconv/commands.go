package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ancient-empires/assetconv/internal/batch"
	"github.com/ancient-empires/assetconv/internal/convert"
	"github.com/ancient-empires/assetconv/internal/parser"
	"github.com/ancient-empires/assetconv/internal/remap"
	"github.com/ancient-empires/assetconv/internal/sprites"
	"github.com/ancient-empires/assetconv/internal/storage"
)

// openStore makes sure the output directories exist and opens the store.
func (a *app) openStore() (*storage.LocalStore, error) {
	if err := a.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return storage.NewLocalStore(a.cfg.Output.Directory)
}

// saveJSON encodes v as JSON into the output directory.
func (a *app) saveJSON(store storage.Store, name string, v any) error {
	var buf bytes.Buffer
	if err := convert.Encode(&buf, v, convert.FormatJSON, a.cfg.JSONIndent()); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	info, err := store.Save(name, &buf)
	if err != nil {
		return err
	}
	a.log.Infof("Saved %s (%d bytes)", info.Name, info.Size)
	return nil
}

func (a *app) runMaps(ctx context.Context) (bool, error) {
	tables, err := remap.Load(a.cfg.Remap.TablesFile)
	if err != nil {
		return false, err
	}
	format, err := convert.ParseFormat(a.cfg.Output.Format)
	if err != nil {
		return false, err
	}
	store, err := a.openStore()
	if err != nil {
		return false, err
	}

	mgr := batch.NewManager(store, tables, a.log)
	job, err := mgr.Run(ctx, batch.Options{
		Dirs:        a.cfg.MapDirs(),
		Extension:   a.cfg.Input.MapExtension,
		Format:      format,
		Indent:      a.cfg.JSONIndent(),
		Workers:     a.cfg.Processing.MaxConcurrentDecodes,
		StopOnError: !a.cfg.Processing.ContinueOnError,
		MapListFile: a.cfg.Output.MapListFile,
		ReportFile:  a.cfg.Output.ReportFile,
	})
	if err != nil {
		return true, err
	}

	report := job.Report
	if a.cfg.Advanced.VerboseProgress {
		for _, res := range report.Files {
			for _, w := range res.Warnings {
				a.log.With(filepath.Base(res.Input)).Warnf("%s", w)
			}
		}
	}
	a.printUnknown("terrain", report.UnknownTerrain)
	a.printUnknown("unit", report.UnknownUnits)
	a.printUnknown("team", report.UnknownTeams)

	fmt.Fprintf(a.out, "Converted %d maps, %d failed\n", report.Converted, report.Failed)
	return report.Failed > 0, nil
}

func (a *app) printUnknown(kind string, counts map[int]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		a.log.Warnf("unknown %s index %d seen %d times, used default", kind, k, counts[k])
	}
}

func (a *app) runTiles() (bool, error) {
	store, err := a.openStore()
	if err != nil {
		return false, err
	}

	tiles, failures, err := convert.Tiles(a.cfg.Input.TileDirectory)
	if err != nil {
		return false, err
	}
	for _, f := range failures {
		a.log.Errorf("tile %d: %v", f.Index, f.Err)
	}
	a.log.Infof("Parsed %d tile definitions, %d failed", len(tiles), len(failures))

	if err := a.saveJSON(store, a.cfg.Output.TilesFile, tiles); err != nil {
		return false, err
	}
	return len(failures) > 0, nil
}

func (a *app) runUnits() error {
	store, err := a.openStore()
	if err != nil {
		return err
	}

	bundle, err := parser.LoadUnitBundle(a.cfg.Input.UnitDirectory)
	if err != nil {
		return err
	}
	a.log.Infof("Loaded %d unit definitions", len(bundle.Units))
	return a.saveJSON(store, a.cfg.Output.UnitsFile, bundle)
}

func (a *app) runInspect(args []string) error {
	if len(args) != 1 {
		return errors.New("inspect needs exactly one map file")
	}
	m, trailing, err := parser.DecodeMapFile(args[0])
	if err != nil {
		return err
	}
	tables, err := remap.Load(a.cfg.Remap.TablesFile)
	if err != nil {
		return err
	}

	name := filepath.Base(args[0])
	res := convert.Map(name, m, tables)

	fmt.Fprintf(a.out, "File:        %s\n", args[0])
	fmt.Fprintf(a.out, "Author:      %q\n", m.Author)
	fmt.Fprintf(a.out, "Team access: %v\n", m.TeamAccess)
	fmt.Fprintf(a.out, "Size:        %dx%d\n", m.Width, m.Height)
	fmt.Fprintf(a.out, "Units:       %d\n", len(m.Units))
	fmt.Fprintf(a.out, "Buildings:   %d\n", len(res.Map.Buildings))
	if trailing > 0 {
		fmt.Fprintf(a.out, "Trailing:    %d bytes\n", trailing)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(a.out, "  %s\n", w)
	}
	return nil
}

func (a *app) runSlice(args []string) error {
	if len(args) != 1 {
		return errors.New("slice needs exactly one sprite sheet")
	}
	img, err := sprites.LoadImage(args[0])
	if err != nil {
		return err
	}

	sc := a.cfg.Sprites
	cut, err := sprites.GridSlice(img, sc.TileWidth, sc.TileHeight, sprites.SliceOptions{
		Scale:     sc.Scale,
		SkipEmpty: sc.SkipEmpty,
	})
	if err != nil {
		return err
	}
	names, err := sprites.Save(sc.OutputDir, cut)
	if err != nil {
		return err
	}
	a.log.Infof("Saved %d %dx%d tiles to %s", len(names), sc.TileWidth, sc.TileHeight, sc.OutputDir)
	return nil
}

func (a *app) runAtlas(args []string) (bool, error) {
	if len(args) != 2 {
		return false, errors.New("atlas needs an atlas file and a page image")
	}
	regions, err := sprites.ParseAtlasFile(args[0])
	if err != nil {
		return false, err
	}
	page, err := sprites.LoadImage(args[1])
	if err != nil {
		return false, err
	}
	a.log.Infof("Found %d regions in %s", len(regions), filepath.Base(args[0]))

	cut, errs := sprites.SliceAtlas(page, regions)
	for _, err := range errs {
		a.log.Errorf("%v", err)
	}
	names, err := sprites.Save(a.cfg.Sprites.OutputDir, cut)
	if err != nil {
		return false, err
	}
	a.log.Infof("Saved %d sprites to %s", len(names), a.cfg.Sprites.OutputDir)
	return len(errs) > 0, nil
}

func (a *app) runManifest(args []string) error {
	dir := a.cfg.Sprites.OutputDir
	if len(args) > 0 {
		dir = args[0]
	}
	manifest, err := sprites.ScanManifest(dir)
	if err != nil {
		return err
	}
	store, err := storage.NewLocalStore(dir)
	if err != nil {
		return err
	}
	return a.saveJSON(store, sprites.ManifestFile, manifest)
}
