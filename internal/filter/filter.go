// Package filter derives null-dropped sub-tables from the loaded datasets.
//
// Every function here is pure: datasets are immutable after load, so the same
// inputs always yield the same rows, and calls may run concurrently.
package filter

import (
	"time"

	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
)

// Query is the inclusion predicate for one filtered view.
// Zero values mean "no restriction" for every field except Entity.
type Query struct {
	Entity    string
	Series    []string   // allowed series; empty = all
	TimeFloor *time.Time // inclusive lower bound on time
	Stat      string     // required `var` value (decadal data); empty = any
}

// Floor is a convenience for building a Query time bound
func Floor(t time.Time) *time.Time {
	return &t
}

// Matches reports whether obs passes every inclusion predicate of q,
// including the non-null value requirement
func (q Query) Matches(obs dataset.Observation) bool {
	if obs.ReferenceArea != q.Entity || !obs.Valid {
		return false
	}
	if q.TimeFloor != nil && obs.Time.Before(*q.TimeFloor) {
		return false
	}
	if q.Stat != "" && obs.Stat != q.Stat {
		return false
	}
	if len(q.Series) > 0 && !contains(q.Series, obs.Series) {
		return false
	}
	return true
}

// Apply returns the rows of ds matching q, in stored order.
// An entity absent from ds yields an empty view, never an error.
func Apply(ds *dataset.Dataset, q Query) View {
	candidates := ds.EntityRows(q.Entity)
	indices := make([]int, 0, len(candidates))
	for _, i := range candidates {
		if q.Matches(ds.Row(i)) {
			indices = append(indices, i)
		}
	}
	return View{ds: ds, entity: q.Entity, indices: indices}
}

// TimeSpan returns the quarter range of every row for entity, null values
// included. Entities without rows get core.NoTimeRange.
func TimeSpan(ds *dataset.Dataset, entity string) core.TimeRange {
	var first, last time.Time
	found := false
	for _, i := range ds.EntityRows(entity) {
		t := ds.Row(i).Time
		if t.IsZero() {
			continue
		}
		if !found || t.Before(first) {
			first = t
		}
		if !found || t.After(last) {
			last = t
		}
		found = true
	}
	if !found {
		return core.NoTimeRange
	}
	return core.NewTimeRange(first, last)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
