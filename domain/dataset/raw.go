package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"inflationdash/domain/core"
)

// RawTable is a source table before schema validation
type RawTable struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Required columns per dataset
var requiredColumns = map[ID][]string{
	Primary:    {"reference_area", "time", "series", "value"},
	DecadalAvg: {"reference_area", "time", "series", "value", "decade", "var"},
	RealIncome: {"reference_area", "time", "series", "value"},
	NotesID:    {"country", "note"},
}

// RequiredColumns returns the columns a source for id must expose
func RequiredColumns(id ID) []string {
	return append([]string(nil), requiredColumns[id]...)
}

var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"null": true,
	"none": true,
	"#n/a": true,
}

// columnIndex maps normalized header names to positions
func columnIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		key := NormalizeHeader(h)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// NormalizeHeader canonicalizes a source column name
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	return h
}

// checkColumns verifies every required column is present
func checkColumns(id ID, raw *RawTable) (map[string]int, error) {
	if raw == nil || len(raw.Headers) == 0 {
		return nil, core.ErrEmptySource
	}
	idx := columnIndex(raw.Headers)
	for _, col := range requiredColumns[id] {
		if _, ok := idx[col]; !ok {
			return nil, core.NewMissingColumnError(raw.Name, col)
		}
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseValue returns the numeric value and whether it is non-null
func parseValue(s string) (float64, bool, error) {
	if nullTokens[strings.ToLower(s)] {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	return v, true, nil
}

// FromRaw validates a raw observation table and converts it to a Dataset
func FromRaw(id ID, raw *RawTable) (*Dataset, error) {
	if id == NotesID || !id.Valid() {
		return nil, fmt.Errorf("%w: %q is not an observation dataset", core.ErrUnknownDataset, id)
	}
	idx, err := checkColumns(id, raw)
	if err != nil {
		return nil, err
	}

	areaCol, timeCol := idx["reference_area"], idx["time"]
	seriesCol, valueCol := idx["series"], idx["value"]
	decadeCol, statCol := -1, -1
	if id == DecadalAvg {
		decadeCol, statCol = idx["decade"], idx["var"]
	}

	rows := make([]Observation, 0, len(raw.Rows))
	for n, row := range raw.Rows {
		line := n + 2 // header is line 1
		obs := Observation{
			ReferenceArea: cell(row, areaCol),
			Series:        cell(row, seriesCol),
			Decade:        cell(row, decadeCol),
			Stat:          cell(row, statCol),
		}
		if obs.ReferenceArea == "" {
			return nil, core.NewBadCellError(raw.Name, line, "reference_area", "")
		}

		ts := cell(row, timeCol)
		switch {
		case ts != "":
			t, err := core.ParseTime(ts)
			if err != nil {
				return nil, core.NewBadCellError(raw.Name, line, "time", ts)
			}
			obs.Time = t
		case id != DecadalAvg:
			// decadal rows are keyed by decade; everything else needs a time
			return nil, core.NewBadCellError(raw.Name, line, "time", ts)
		}

		v, ok, err := parseValue(cell(row, valueCol))
		if err != nil {
			return nil, core.NewBadCellError(raw.Name, line, "value", cell(row, valueCol))
		}
		obs.Value, obs.Valid = v, ok

		rows = append(rows, obs)
	}
	return New(id, rows), nil
}

// NotesFromRaw validates the notes source
func NotesFromRaw(raw *RawTable) (Notes, error) {
	idx, err := checkColumns(NotesID, raw)
	if err != nil {
		return Notes{}, err
	}
	pairs := make([][2]string, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		country := cell(row, idx["country"])
		if country == "" {
			continue
		}
		pairs = append(pairs, [2]string{country, cell(row, idx["note"])})
	}
	return NewNotes(pairs), nil
}
