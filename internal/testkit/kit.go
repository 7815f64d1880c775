package testkit

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"inflationdash/adapters/excel"
	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
)

// MemorySource serves raw tables from memory and counts reads per dataset
type MemorySource struct {
	mu     sync.Mutex
	tables map[dataset.ID]*dataset.RawTable
	reads  map[dataset.ID]int
}

// NewMemorySource wraps already-built raw tables
func NewMemorySource(tables map[dataset.ID]*dataset.RawTable) *MemorySource {
	return &MemorySource{
		tables: tables,
		reads:  make(map[dataset.ID]int),
	}
}

// Read returns the table for id, or an error when it was never provided
func (s *MemorySource) Read(ctx context.Context, id dataset.ID) (*dataset.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[id]++
	raw, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownDataset, id)
	}
	return raw, nil
}

func (s *MemorySource) Describe() string { return "memory" }

// Remove drops a table so the next read of id fails
func (s *MemorySource) Remove(id dataset.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
}

// Reads reports how often id was read
func (s *MemorySource) Reads(id dataset.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[id]
}

// WriteCSVDir writes each table to dir under its default csv file name
func WriteCSVDir(dir string, tables map[dataset.ID]*dataset.RawTable) error {
	for id, raw := range tables {
		name, ok := excel.DefaultFiles[id]
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrUnknownDataset, id)
		}
		if err := writeCSV(filepath.Join(dir, name), raw); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, raw *dataset.RawTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(raw.Headers); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(raw.Rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
