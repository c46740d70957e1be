package testutil

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ancient-empires/assetconv/internal/models"
)

// MemStore keeps saved files in memory, keyed by name.
type MemStore struct {
	mu    sync.RWMutex
	files map[string]*models.FileInfo
	data  map[string][]byte
	seq   int

	// FailOn makes Save fail for the named file.
	FailOn map[string]error
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		files:  make(map[string]*models.FileInfo),
		data:   make(map[string][]byte),
		FailOn: make(map[string]error),
	}
}

func (m *MemStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.FailOn[name]; err != nil {
		return nil, err
	}

	status := "written"
	if _, ok := m.files[name]; ok {
		status = "replaced"
	}
	m.seq++
	info := &models.FileInfo{
		ID:        fmt.Sprintf("mem-%d", m.seq),
		Name:      name,
		Size:      int64(len(data)),
		WrittenAt: time.Now(),
		Status:    status,
	}
	m.files[name] = info
	m.data[name] = data
	return info, nil
}

// Data returns the bytes saved under name.
func (m *MemStore) Data(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.data[name]
	return d, ok
}

// Len returns the number of distinct files saved.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// Info returns the metadata for name.
func (m *MemStore) Info(name string) (*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.files[name]
	if !ok {
		return nil, errors.New("file not found")
	}
	return info, nil
}
