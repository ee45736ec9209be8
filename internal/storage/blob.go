package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatali-fataliyev/club_treasury/internal/records"
)

var (
	_ records.Source = (*DirSource)(nil)
	_ records.Source = (*MemorySource)(nil)
)

// DirSource serves snapshot files from a directory on disk. Files are read
// whole on every call; nothing is cached.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (d *DirSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid snapshot name: %q", name)
	}
	data, err := os.ReadFile(filepath.Join(d.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// MemorySource is a snapshot source held in memory.
type MemorySource struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemorySource() *MemorySource {
	return &MemorySource{files: make(map[string][]byte)}
}

func (m *MemorySource) Put(name string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = []byte(content)
}

func (m *MemorySource) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
}

func (m *MemorySource) Read(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("failed to read %s: %w", name, os.ErrNotExist)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
