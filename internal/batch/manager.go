// Package batch converts every map file found in a set of directories.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ancient-empires/assetconv/internal/convert"
	"github.com/ancient-empires/assetconv/internal/logx"
	"github.com/ancient-empires/assetconv/internal/models"
	"github.com/ancient-empires/assetconv/internal/parser"
	"github.com/ancient-empires/assetconv/internal/remap"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Status represents the batch processing status.
type Status string

const (
	StatusScanning   Status = "scanning"
	StatusConverting Status = "converting"
	StatusWriting    Status = "writing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Job represents one batch conversion run.
type Job struct {
	ID          string              `json:"id"`
	Status      Status              `json:"status"`
	Progress    float64             `json:"progress"`
	Stage       string              `json:"stage"`
	Total       int                 `json:"total"`
	Done        int                 `json:"done"`
	Report      *models.BatchReport `json:"report,omitempty"`
	Error       string              `json:"error,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
}

// Store defines the interface needed from the storage layer.
type Store interface {
	Save(name string, r io.Reader) (*models.FileInfo, error)
}

// Options configures a batch run.
type Options struct {
	Dirs        []string
	Extension   string // map file extension, e.g. ".aem"
	Format      convert.Format
	Indent      string
	Workers     int
	StopOnError bool
	MapListFile string
	ReportFile  string
}

// Manager runs batch conversions.
type Manager struct {
	mu     sync.RWMutex
	store  Store
	tables *remap.Tables
	log    *logx.Logger
}

// NewManager creates a new batch manager.
func NewManager(store Store, tables *remap.Tables, log *logx.Logger) *Manager {
	if log == nil {
		log = logx.Discard()
	}
	return &Manager{
		store:  store,
		tables: tables,
		log:    log,
	}
}

// Discover lists map files in dirs, in directory order then name order.
// Directories that do not exist are returned in missing rather than
// failing the scan.
func Discover(dirs []string, ext string) (files []string, missing []string, err error) {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				missing = append(missing, dir)
				continue
			}
			return nil, nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
				continue
			}
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, missing, nil
}

// mapName is the map's name in the converted record: its base name
// without extension.
func mapName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Run scans, converts and writes every map synchronously. A file that
// fails to decode is recorded in the report and the run continues, unless
// StopOnError is set. The returned job is a snapshot of the final state.
func (m *Manager) Run(ctx context.Context, opts Options) (*Job, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Format == "" {
		opts.Format = convert.FormatJSON
	}

	job := &Job{
		ID:        uuid.New().String(),
		Status:    StatusScanning,
		Stage:     "scanning directories",
		CreatedAt: time.Now(),
	}

	log := m.log.With("Batch " + job.ID[:8])
	report := &models.BatchReport{
		ID:        job.ID,
		StartedAt: job.CreatedAt,
		MapList:   make([]string, 0),
	}

	files, missing, err := Discover(opts.Dirs, opts.Extension)
	for _, dir := range missing {
		log.Warnf("directory not found: %s", dir)
	}
	if err != nil {
		m.markJobError(job, err.Error())
		return m.snapshot(job), err
	}
	log.Infof("Found %d map files in %d directories", len(files), len(opts.Dirs)-len(missing))

	m.mu.Lock()
	job.Total = len(files)
	m.mu.Unlock()
	m.updateJobStatus(job, StatusConverting, "converting maps")

	results := make([]models.FileResult, len(files))
	audits := make([]*remap.Audit, len(files))

	// Maps from different directories can share a name; only the first
	// one gets written.
	owner := make(map[string]string, len(files))
	for i, path := range files {
		out := mapName(path) + opts.Format.Extension()
		results[i] = models.FileResult{Input: path, Output: out}
		if first, ok := owner[out]; ok {
			results[i].Output = ""
			results[i].Status = models.FileStatusSkipped
			results[i].Error = fmt.Sprintf("output %s already produced by %s", out, first)
			continue
		}
		owner[out] = path
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range files {
		if results[i].Status == models.FileStatusSkipped {
			m.advance(job)
			continue
		}
		g.Go(func() error {
			defer m.advance(job)
			if err := gctx.Err(); err != nil {
				results[i].Output = ""
				results[i].Status = models.FileStatusSkipped
				results[i].Error = err.Error()
				return nil
			}
			audit, err := m.convertOne(&results[i], opts)
			audits[i] = audit
			if err != nil {
				log.Errorf("%s: %v", filepath.Base(results[i].Input), err)
				if opts.StopOnError {
					return fmt.Errorf("converting %s: %w", results[i].Input, err)
				}
				return nil
			}
			log.Debugf("Converted %s -> %s (%d warnings)", filepath.Base(results[i].Input), results[i].Output, len(results[i].Warnings))
			return nil
		})
	}
	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	total := remap.NewAudit()
	for i, res := range results {
		if audits[i] != nil {
			total.Merge(audits[i])
		}
		switch res.Status {
		case models.FileStatusConverted:
			report.Converted++
			report.MapList = append(report.MapList, res.Output)
		case models.FileStatusError:
			report.Failed++
		}
	}
	report.Files = results
	if !total.Empty() {
		report.UnknownTerrain = total.Terrain
		report.UnknownUnits = total.Units
		report.UnknownTeams = total.Teams
	}

	m.updateJobStatus(job, StatusWriting, "writing map list and report")
	if err := m.writeSummary(report, opts); err != nil {
		m.markJobError(job, err.Error())
		return m.snapshot(job), err
	}

	if runErr != nil {
		m.mu.Lock()
		job.Report = report
		m.mu.Unlock()
		m.markJobError(job, runErr.Error())
		return m.snapshot(job), runErr
	}

	m.markJobComplete(job, report)
	log.Infof("Converted %d maps, %d failed. Saved %s.", report.Converted, report.Failed, opts.MapListFile)
	return m.snapshot(job), nil
}

// convertOne decodes, converts and stores a single map, filling res.
func (m *Manager) convertOne(res *models.FileResult, opts Options) (*remap.Audit, error) {
	fail := func(err error) (*remap.Audit, error) {
		res.Output = ""
		res.Status = models.FileStatusError
		res.Error = err.Error()
		return nil, err
	}

	mf, trailing, err := parser.DecodeMapFile(res.Input)
	if err != nil {
		return fail(err)
	}

	conv := convert.Map(mapName(res.Input), mf, m.tables)
	res.Warnings = conv.Warnings
	if trailing > 0 {
		res.Warnings = append(res.Warnings, models.Warning{Kind: models.WarningTrailingBytes, Index: trailing})
	}

	var buf bytes.Buffer
	if err := convert.Encode(&buf, conv.Map, opts.Format, opts.Indent); err != nil {
		return fail(fmt.Errorf("encoding: %w", err))
	}
	if _, err := m.store.Save(res.Output, &buf); err != nil {
		return fail(fmt.Errorf("saving: %w", err))
	}

	res.Status = models.FileStatusConverted
	return conv.Audit, nil
}

// writeSummary writes the map list and report as JSON.
func (m *Manager) writeSummary(report *models.BatchReport, opts Options) error {
	report.FinishedAt = time.Now()

	if opts.MapListFile != "" {
		var buf bytes.Buffer
		if err := convert.Encode(&buf, report.MapList, convert.FormatJSON, opts.Indent); err != nil {
			return fmt.Errorf("encoding map list: %w", err)
		}
		if _, err := m.store.Save(opts.MapListFile, &buf); err != nil {
			return fmt.Errorf("saving map list: %w", err)
		}
	}

	if opts.ReportFile != "" {
		var buf bytes.Buffer
		if err := convert.Encode(&buf, report, convert.FormatJSON, opts.Indent); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		if _, err := m.store.Save(opts.ReportFile, &buf); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
	}
	return nil
}

func (m *Manager) snapshot(job *Job) *Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := *job
	return &cp
}

// advance counts one finished file (thread-safe).
func (m *Manager) advance(job *Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Done++
	if job.Total > 0 {
		// Converting covers 0-95%, writing the summary the rest
		job.Progress = float64(job.Done) / float64(job.Total) * 95
	}
}

// updateJobStatus updates job stage (thread-safe).
func (m *Manager) updateJobStatus(job *Job, status Status, stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = status
	job.Stage = stage
	if status == StatusWriting {
		job.Progress = 95
	}
}

// markJobComplete marks job as complete (thread-safe).
func (m *Manager) markJobComplete(job *Job, report *models.BatchReport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = StatusComplete
	job.Stage = "done"
	job.Progress = 100
	job.Report = report
	now := time.Now()
	job.CompletedAt = &now
}

// markJobError marks job as failed (thread-safe).
func (m *Manager) markJobError(job *Job, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = StatusError
	job.Error = errMsg
	now := time.Now()
	job.CompletedAt = &now
	m.log.With("Batch "+job.ID[:8]).Errorf("%s", errMsg)
}
