package template

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Load opens a template workbook from disk and validates it against the
// layout. An unreadable or drifted template is a configuration error and the
// caller is expected to fail the whole generation request.
func Load(path string, layout Layout) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open template %q: %w", path, err)
	}
	if err := layout.Validate(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("validate template %q: %w", path, err)
	}
	return f, nil
}

// LoadReader opens a template workbook from a reader and validates it.
func LoadReader(r io.Reader, layout Layout) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open template reader: %w", err)
	}
	if err := layout.Validate(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("validate template: %w", err)
	}
	return f, nil
}

// Store serves fresh template workbooks from a single file read at startup.
// Each acquisition re-opens the cached bytes so concurrent generation requests
// never share a mutable excelize.File.
type Store struct {
	layout Layout

	mu   sync.RWMutex
	path string
	raw  []byte
}

// NewStore reads the template file once and keeps its bytes in memory.
func NewStore(path string, layout Layout) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %q: %w", path, err)
	}
	s := &Store{layout: layout, path: path, raw: raw}

	// Validate up front so a broken template surfaces at startup, not on the
	// first request.
	f, err := s.Acquire()
	if err != nil {
		return nil, err
	}
	f.Close()
	return s, nil
}

// Acquire returns a fresh workbook parsed from the cached template bytes. The
// caller owns the returned file and must Close it.
func (s *Store) Acquire() (*excelize.File, error) {
	s.mu.RLock()
	raw := s.raw
	s.mu.RUnlock()
	return LoadReader(bytes.NewReader(raw), s.layout)
}

// Reload re-reads the template file from disk, replacing the cached bytes.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reload template %q: %w", s.path, err)
	}
	s.raw = raw
	return nil
}

// Layout returns the layout the store validates against.
func (s *Store) Layout() Layout { return s.layout }
