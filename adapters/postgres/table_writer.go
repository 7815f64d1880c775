package postgres

import (
	"context"
	"fmt"
	"log"
	"strings"

	"inflationdash/domain/dataset"

	"github.com/jmoiron/sqlx"
)

// ImportTables replaces each dataset's table with the given raw tables.
// Columns are stored as TEXT, exactly as they appear in the source files, and
// parsed on load like any other source.
func ImportTables(ctx context.Context, db *sqlx.DB, tables map[dataset.ID]string, raws map[dataset.ID]*dataset.RawTable) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	for _, id := range dataset.AllIDs {
		raw, ok := raws[id]
		if !ok {
			continue
		}
		table := tables[id]
		if table == "" {
			table = DefaultTables[id]
		}
		if !identifier.MatchString(table) {
			return fmt.Errorf("invalid table name %q for %s", table, id)
		}
		if err := importTable(ctx, tx, table, raw); err != nil {
			return err
		}
		log.Printf("[SQLSource] imported %d rows into %s", len(raw.Rows), table)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

func importTable(ctx context.Context, tx *sqlx.Tx, table string, raw *dataset.RawTable) error {
	columns := make([]string, len(raw.Headers))
	defs := make([]string, len(raw.Headers))
	for i, h := range raw.Headers {
		col := dataset.NormalizeHeader(h)
		if !identifier.MatchString(col) {
			return fmt.Errorf("invalid column name %q in %s", h, raw.Name)
		}
		columns[i] = col
		defs[i] = col + " TEXT"
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("failed to create %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	insert := tx.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), placeholders))
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(columns))
	for n, row := range raw.Rows {
		for i := range columns {
			if i < len(row) && row[i] != "" {
				args[i] = row[i]
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d into %s: %w", n+2, table, err)
		}
	}
	return nil
}
