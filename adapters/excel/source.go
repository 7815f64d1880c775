package excel

import (
	"context"
	"fmt"
	"path/filepath"

	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
	"inflationdash/ports"
)

// DirSource reads each dataset from its own CSV (or xlsx) file in a directory
type DirSource struct {
	dir   string
	files map[dataset.ID]string
}

var _ ports.DatasetSource = (*DirSource)(nil)

// NewDirSource creates a directory source; overrides replace default file names
func NewDirSource(dir string, overrides map[dataset.ID]string) *DirSource {
	return &DirSource{dir: dir, files: copyNames(DefaultFiles, overrides)}
}

func (s *DirSource) Read(ctx context.Context, id dataset.ID) (*dataset.RawTable, error) {
	name, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownDataset, id)
	}
	raw, err := NewDataReader(filepath.Join(s.dir, name)).ReadTable(ctx, "")
	if err != nil {
		return nil, err
	}
	raw.Name = name
	return raw, nil
}

func (s *DirSource) Describe() string {
	return "csv directory " + s.dir
}

// WorkbookSource reads each dataset from a sheet of a single xlsx workbook
type WorkbookSource struct {
	path   string
	sheets map[dataset.ID]string
}

var _ ports.DatasetSource = (*WorkbookSource)(nil)

// NewWorkbookSource creates a workbook source; overrides replace default sheet names
func NewWorkbookSource(path string, overrides map[dataset.ID]string) *WorkbookSource {
	return &WorkbookSource{path: path, sheets: copyNames(DefaultSheets, overrides)}
}

func (s *WorkbookSource) Read(ctx context.Context, id dataset.ID) (*dataset.RawTable, error) {
	sheet, ok := s.sheets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownDataset, id)
	}
	return NewDataReader(s.path).ReadTable(ctx, sheet)
}

func (s *WorkbookSource) Describe() string {
	return "workbook " + s.path
}
