package postgres

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
	"inflationdash/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultTables names the table holding each source
var DefaultTables = map[dataset.ID]string{
	dataset.Primary:    "merged_data",
	dataset.DecadalAvg: "merged_data_avg",
	dataset.RealIncome: "merged_data_real_incomes",
	dataset.NotesID:    "country_notes",
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open connects to a database. driver is "postgres" or "sqlite3".
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		// each sqlite connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// datasetSource reads each dataset from its own table
type datasetSource struct {
	db     *sqlx.DB
	tables map[dataset.ID]string
}

// NewDatasetSource creates a SQL-backed dataset source; overrides replace default table names
func NewDatasetSource(db *sqlx.DB, overrides map[dataset.ID]string) (ports.DatasetSource, error) {
	tables := make(map[dataset.ID]string, len(DefaultTables))
	for id, name := range DefaultTables {
		tables[id] = name
	}
	for id, name := range overrides {
		if name != "" {
			tables[id] = name
		}
	}
	for id, name := range tables {
		if !identifier.MatchString(name) {
			return nil, fmt.Errorf("invalid table name %q for %s", name, id)
		}
	}
	return &datasetSource{db: db, tables: tables}, nil
}

// Read selects every row of the dataset's table in natural order
func (s *datasetSource) Read(ctx context.Context, id dataset.ID) (*dataset.RawTable, error) {
	table, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownDataset, id)
	}

	start := time.Now()
	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	raw := &dataset.RawTable{Name: table, Headers: headers}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = cellString(v)
		}
		raw.Rows = append(raw.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	log.Printf("[SQLSource] %s: %d rows in %s", table, len(raw.Rows), time.Since(start).Round(time.Millisecond))
	return raw, nil
}

func (s *datasetSource) Describe() string {
	return s.db.DriverName() + " database"
}

// cellString renders a scanned value the way a CSV cell would hold it
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
