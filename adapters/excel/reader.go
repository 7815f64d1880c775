package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"inflationdash/domain/core"
	"inflationdash/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadTable reads one table. sheet is only used for workbooks; an empty
// sheet selects the first one.
func (r *DataReader) ReadTable(ctx context.Context, sheet string) (*dataset.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Check if file exists
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, fmt.Errorf("%s file not found: %s: %w", strings.ToUpper(r.fileType), r.filePath, err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData(sheet)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads one sheet of a workbook
func (r *DataReader) readExcelData(sheet string) (*dataset.RawTable, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	log.Printf("[DataReader] %s!%s read in %.2fms (%d rows)",
		filepath.Base(r.filePath), sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(sheet, rows)
}

// readCSVData reads CSV data into a raw table
func (r *DataReader) readCSVData() (*dataset.RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)",
		filepath.Base(r.filePath), float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(filepath.Base(r.filePath), rows)
}

// processRows splits the header row from the data rows
func (r *DataReader) processRows(name string, rows [][]string) (*dataset.RawTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", core.ErrEmptySource, name)
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		dataRows = append(dataRows, cells)
	}

	return &dataset.RawTable{
		Name:    name,
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
