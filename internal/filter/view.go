package filter

import (
	"inflationdash/domain/dataset"
)

// View is a filtered subset of a Dataset.
// Holds indices into the parent, so building one copies no rows.
type View struct {
	ds      *dataset.Dataset
	entity  string
	indices []int
}

func (v View) Len() int       { return len(v.indices) }
func (v View) Empty() bool    { return len(v.indices) == 0 }
func (v View) Entity() string { return v.entity }

// Source returns the dataset the view was taken from, nil for the zero View
func (v View) Source() dataset.ID {
	if v.ds == nil {
		return ""
	}
	return v.ds.ID()
}

// At returns the i-th row of the view
func (v View) At(i int) dataset.Observation {
	return v.ds.Row(v.indices[i])
}

// Rows copies the view's observations out in order
func (v View) Rows() []dataset.Observation {
	out := make([]dataset.Observation, len(v.indices))
	for n, i := range v.indices {
		out[n] = v.ds.Row(i)
	}
	return out
}

// Series returns the distinct series in first-appearance order
func (v View) Series() []string {
	seen := make(map[string]bool)
	var out []string
	for _, i := range v.indices {
		s := v.ds.Row(i).Series
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Values returns the values of one series, in view order
func (v View) Values(series string) []float64 {
	var out []float64
	for _, i := range v.indices {
		obs := v.ds.Row(i)
		if obs.Series == series {
			out = append(out, obs.Value)
		}
	}
	return out
}
