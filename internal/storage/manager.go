package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ancient-empires/assetconv/internal/models"
	"github.com/google/uuid"
)

// Store defines the interface for converted-output storage.
type Store interface {
	Save(name string, r io.Reader) (*models.FileInfo, error)
}

// LocalStore implements Store using an output directory on disk.
// Files keep their given names.
type LocalStore struct {
	mu        sync.Mutex
	outputDir string
	written   map[string]bool
}

// NewLocalStore creates a new LocalStore.
func NewLocalStore(outputDir string) (*LocalStore, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &LocalStore{
		outputDir: outputDir,
		written:   make(map[string]bool),
	}, nil
}

// Dir returns the output directory.
func (s *LocalStore) Dir() string {
	return s.outputDir
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid output file name: %q", name)
	}
	return nil
}

// Save writes r to outputDir/name. The data goes to a temporary file first
// and is renamed into place, so a failed write never leaves a partial file.
func (s *LocalStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.outputDir, "."+name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	tmpPath := tmp.Name()

	size, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	path := filepath.Join(s.outputDir, name)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("moving file into place: %w", err)
	}

	info := &models.FileInfo{
		ID:        uuid.New().String(),
		Name:      name,
		Size:      size,
		WrittenAt: time.Now(),
		Status:    "written",
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.written[name] {
		info.Status = "replaced"
	}
	s.written[name] = true

	return info, nil
}
