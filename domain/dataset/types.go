// Package dataset holds the immutable tabular datasets the dashboard derives its views from
package dataset

import (
	"time"
)

// ID identifies one of the four dataset categories
type ID string

const (
	Primary    ID = "series"      // quarterly raw series and contribution shares
	DecadalAvg ID = "avg"         // per-decade aggregated statistics
	RealIncome ID = "real_income" // indexed real-income series
	NotesID    ID = "notes"       // one row per entity with free-text caveats
)

// AllIDs lists every dataset the store must load, in load-log order
var AllIDs = []ID{Primary, DecadalAvg, RealIncome, NotesID}

func (id ID) String() string { return string(id) }

// Valid reports whether id names a known dataset
func (id ID) Valid() bool {
	for _, known := range AllIDs {
		if id == known {
			return true
		}
	}
	return false
}

// Observation is one row of an observation dataset
type Observation struct {
	ReferenceArea string    `json:"reference_area"`
	Time          time.Time `json:"time"`
	Series        string    `json:"series"`
	Value         float64   `json:"value"`
	Valid         bool      `json:"-"` // false when the source value was null
	Decade        string    `json:"decade,omitempty"`
	Stat          string    `json:"var,omitempty"`
}

// ValueField names the numeric column plotted on the y axis
const ValueField = "value"

// IsField reports whether Observation.Field can read name
func IsField(name string) bool {
	switch name {
	case "reference_area", "time", "series", "decade", "var":
		return true
	}
	return false
}

// Field returns a column value by its source name, formatted for display
func (o Observation) Field(name string) string {
	switch name {
	case "reference_area":
		return o.ReferenceArea
	case "time":
		if o.Time.IsZero() {
			return ""
		}
		return o.Time.Format("2006-01-02")
	case "series":
		return o.Series
	case "decade":
		return o.Decade
	case "var":
		return o.Stat
	default:
		return ""
	}
}

// Dataset is an ordered, read-only collection of observations
type Dataset struct {
	id       ID
	rows     []Observation
	entities []string
	byEntity map[string][]int
}

// New builds a Dataset, indexing rows by entity in stored order
func New(id ID, rows []Observation) *Dataset {
	ds := &Dataset{
		id:       id,
		rows:     rows,
		byEntity: make(map[string][]int),
	}
	for i, r := range rows {
		if _, seen := ds.byEntity[r.ReferenceArea]; !seen {
			ds.entities = append(ds.entities, r.ReferenceArea)
		}
		ds.byEntity[r.ReferenceArea] = append(ds.byEntity[r.ReferenceArea], i)
	}
	return ds
}

func (d *Dataset) ID() ID   { return d.id }
func (d *Dataset) Len() int { return len(d.rows) }

// Row returns the i-th observation by value
func (d *Dataset) Row(i int) Observation {
	return d.rows[i]
}

// Entities returns the distinct reference areas in first-appearance order
func (d *Dataset) Entities() []string {
	out := make([]string, len(d.entities))
	copy(out, d.entities)
	return out
}

// HasEntity reports whether any row belongs to entity
func (d *Dataset) HasEntity(entity string) bool {
	_, ok := d.byEntity[entity]
	return ok
}

// EntityRows returns the stored-order row indices for entity.
// The returned slice must not be modified.
func (d *Dataset) EntityRows(entity string) []int {
	return d.byEntity[entity]
}

// Notes maps an entity to its free-text caveat
type Notes struct {
	byCountry map[string]string
}

// NewNotes builds a Notes lookup; the first note for a country wins
func NewNotes(pairs [][2]string) Notes {
	n := Notes{byCountry: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		if _, exists := n.byCountry[p[0]]; !exists {
			n.byCountry[p[0]] = p[1]
		}
	}
	return n
}

// Lookup returns the note for entity; ok is false when the entity has none
func (n Notes) Lookup(entity string) (string, bool) {
	note, ok := n.byCountry[entity]
	return note, ok
}

func (n Notes) Len() int { return len(n.byCountry) }
