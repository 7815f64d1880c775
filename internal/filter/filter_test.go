package filter

import (
	"testing"
	"time"

	"inflationdash/domain/core"
	"inflationdash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := core.ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func obs(area, ts, series string, value float64, valid bool) dataset.Observation {
	return dataset.Observation{ReferenceArea: area, Time: date(ts), Series: series, Value: value, Valid: valid}
}

func fixture() *dataset.Dataset {
	return dataset.New(dataset.Primary, []dataset.Observation{
		obs("Japan", "2018-10-01", "contr_unit_labor_cost", 0.7, true),
		obs("Japan", "2019-01-01", "contr_unit_labor_cost", 1.2, true),
		obs("Canada", "2019-01-01", "contr_unit_labor_cost", 2.0, true),
		obs("Japan", "2019-01-01", "contr_unit_profit", 0.0, false),
		obs("Japan", "2019-04-01", "contr_unit_labor_cost", -0.3, true),
		obs("Japan", "2019-04-01", "labor_share", 51.0, true),
		obs("Canada", "2020-01-01", "labor_share", 55.0, true),
		obs("Japan", "2020-01-01", "contr_unit_tax", 0.2, true),
	})
}

func TestApply_EntityIsolation(t *testing.T) {
	ds := fixture()
	for _, entity := range ds.Entities() {
		view := Apply(ds, Query{Entity: entity})
		require.False(t, view.Empty())
		for _, row := range view.Rows() {
			assert.Equal(t, entity, row.ReferenceArea)
		}
	}
}

func TestApply_ExhaustivePredicates(t *testing.T) {
	ds := fixture()
	floor := date("2019-01-01")

	entities := []string{"Japan", "Canada", "Atlantis"}
	seriesSets := [][]string{nil, {"contr_unit_labor_cost"}, {"contr_unit_labor_cost", "contr_unit_profit", "contr_unit_tax"}, {"missing"}}
	floors := []*time.Time{nil, &floor}

	for _, e := range entities {
		for _, s := range seriesSets {
			for _, f := range floors {
				q := Query{Entity: e, Series: s, TimeFloor: f}
				view := Apply(ds, q)

				// every returned row satisfies all predicates
				for _, row := range view.Rows() {
					assert.Equal(t, e, row.ReferenceArea)
					assert.True(t, row.Valid)
					if len(s) > 0 {
						assert.Contains(t, s, row.Series)
					}
					if f != nil {
						assert.False(t, row.Time.Before(*f))
					}
				}

				// and no qualifying row is missed
				want := 0
				for i := 0; i < ds.Len(); i++ {
					if q.Matches(ds.Row(i)) {
						want++
					}
				}
				assert.Equal(t, want, view.Len())
			}
		}
	}
}

func TestApply_StoredOrderAndNullDrop(t *testing.T) {
	ds := fixture()
	view := Apply(ds, Query{
		Entity:    "Japan",
		Series:    []string{"contr_unit_labor_cost", "contr_unit_profit", "contr_unit_tax"},
		TimeFloor: Floor(date("2019-01-01")),
	})

	rows := view.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, 1.2, rows[0].Value)
	assert.Equal(t, -0.3, rows[1].Value)
	assert.Equal(t, "contr_unit_tax", rows[2].Series)
	assert.Equal(t, []string{"contr_unit_labor_cost", "contr_unit_tax"}, view.Series())
	assert.Equal(t, []float64{1.2, -0.3}, view.Values("contr_unit_labor_cost"))
}

func TestApply_StatPredicate(t *testing.T) {
	ds := dataset.New(dataset.DecadalAvg, []dataset.Observation{
		{ReferenceArea: "Japan", Series: "contr_unit_profit", Decade: "1990s", Stat: "mean", Value: 0.4, Valid: true},
		{ReferenceArea: "Japan", Series: "contr_unit_profit", Decade: "1990s", Stat: "sd", Value: 0.1, Valid: true},
	})
	view := Apply(ds, Query{Entity: "Japan", Stat: "mean"})
	require.Equal(t, 1, view.Len())
	assert.Equal(t, 0.4, view.At(0).Value)
	assert.Equal(t, dataset.DecadalAvg, view.Source())
}

func TestApply_EmptyIsNotAnError(t *testing.T) {
	view := Apply(fixture(), Query{Entity: "Atlantis"})
	assert.True(t, view.Empty())
	assert.Equal(t, 0, view.Len())
	assert.Empty(t, view.Rows())
	assert.Empty(t, view.Series())
	assert.Equal(t, "Atlantis", view.Entity())
}

func TestApply_Idempotent(t *testing.T) {
	ds := fixture()
	q := Query{Entity: "Japan", Series: []string{"contr_unit_labor_cost"}}
	assert.Equal(t, Apply(ds, q).Rows(), Apply(ds, q).Rows())
}

func TestApply_Concurrent(t *testing.T) {
	ds := fixture()
	q := Query{Entity: "Japan"}
	want := Apply(ds, q).Rows()

	done := make(chan []dataset.Observation, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- Apply(ds, q).Rows() }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want, <-done)
	}
}

func TestTimeSpan(t *testing.T) {
	ds := fixture()

	span := TimeSpan(ds, "Japan")
	assert.Equal(t, []string{"2018-Q4", "2020-Q1"}, span.Labels())

	assert.True(t, TimeSpan(ds, "Atlantis").NoData)
}
