package chartspec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"inflationdash/domain/chart"
	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
	"inflationdash/internal/errors"
	"inflationdash/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func q(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func primaryFixture() *dataset.Dataset {
	row := func(area string, ts time.Time, series string, v float64) dataset.Observation {
		return dataset.Observation{ReferenceArea: area, Time: ts, Series: series, Value: v, Valid: true}
	}
	return dataset.New(dataset.Primary, []dataset.Observation{
		row("Japan", q(2018, 10), "contr_unit_labor_cost", 0.4),
		row("Japan", q(2019, 1), "contr_unit_labor_cost", 1.2),
		row("Japan", q(2019, 1), "contr_unit_profit", -0.5),
		row("Japan", q(2019, 1), "contr_unit_tax", 0.1),
		row("Japan", q(2019, 4), "contr_unit_labor_cost", 0.9),
		row("Japan", q(2019, 4), "contr_other", 0.3),
		row("Japan", q(2019, 4), "contr_relative", 1.8),
		row("Canada", q(2019, 1), "contr_unit_labor_cost", 2.2),
	})
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, 9, c.Len())

	ids := make([]core.ChartID, 0, c.Len())
	for _, d := range c.Descriptors() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []core.ChartID{
		"pandemic_contributions", "pandemic_relative", "labor_share", "real_incomes",
		"deflator_vs_cpi", "deflator_vs_cpi_pandemic", "contributions",
		"decadal_contributions", "decadal_relative",
	}, ids)

	d, err := c.Lookup("decadal_contributions")
	require.NoError(t, err)
	assert.Equal(t, dataset.DecadalAvg, d.Source)
	assert.Equal(t, "mean", d.Stat)
	assert.Equal(t, "decade", d.X)
	assert.Equal(t, "Unit taxes", d.Label("contr_unit_tax"))

	_, err = c.Lookup("nope")
	assert.ErrorIs(t, err, core.ErrUnknownChart)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "charts: [:"},
		{"empty", "charts: []"},
		{"unknown source", `charts:
  - {id: a, source: gdp, kind: bar, x: time, y: value, title: "{entity}"}`},
		{"unknown kind", `charts:
  - {id: a, source: series, kind: pie, x: time, y: value, title: "{entity}"}`},
		{"duplicate id", `charts:
  - {id: a, source: series, kind: bar, x: time, y: value, title: "{entity}"}
  - {id: a, source: series, kind: line, x: time, y: value, title: "{entity}"}`},
		{"missing slot", `charts:
  - {id: a, source: series, kind: bar, x: time, y: value, title: "Static"}`},
		{"unknown x field", `charts:
  - {id: a, source: series, kind: bar, x: tme, y: value, title: "{entity}"}`},
		{"unknown color field", `charts:
  - {id: a, source: series, kind: bar, x: time, y: value, color: serie, title: "{entity}"}`},
		{"bad floor", `charts:
  - {id: a, source: series, kind: bar, x: time, y: value, title: "{entity}", time_floor: "soon"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
		})
	}
}

func TestLoadCatalog_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`charts:
  - id: only
    panel: P
    tab: T
    source: series
    kind: line
    x: time
    y: value
    title: "Only, {entity}"
`), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))

	c, err = LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, 9, c.Len())
}

func TestBuild_PandemicContributions(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	desc, err := c.Lookup("pandemic_contributions")
	require.NoError(t, err)

	query, err := QueryFor(desc, "Japan")
	require.NoError(t, err)
	view := filter.Apply(primaryFixture(), query)
	spec := Build(desc, view)

	assert.False(t, spec.NoData)
	assert.Equal(t, chart.KindBar, spec.Kind)
	assert.Equal(t, "Percent Contributions to Annual Inflation, Quarterly, Japan", spec.Title)
	assert.Equal(t, 14, spec.Layout.TitleSize)
	assert.Empty(t, spec.Layout.XAxisTitle)
	assert.Empty(t, spec.Layout.YAxisTitle)
	assert.Equal(t, "h", spec.Layout.Legend.Orientation)

	require.Len(t, spec.Series, 3)
	names := []string{spec.Series[0].Name, spec.Series[1].Name, spec.Series[2].Name}
	assert.Equal(t, []string{"Unit labor costs", "Unit profits", "Unit taxes"}, names)

	labor := spec.Series[0]
	assert.Equal(t, "contr_unit_labor_cost", labor.Key)
	assert.Equal(t, []chart.Point{{X: "2019-01-01", Y: 1.2}, {X: "2019-04-01", Y: 0.9}}, labor.Points)
	assert.Equal(t, 4, spec.PointCount(), "pre-2019 and unlisted series are excluded")
}

func TestBuild_UnknownSeriesPassThrough(t *testing.T) {
	desc := chart.Descriptor{
		ID: "all", Source: dataset.Primary, Kind: chart.KindBar,
		X: "time", Y: "value", Color: "series", Title: "All, {entity}",
		Labels: map[string]string{"contr_unit_profit": "Unit profits"},
	}
	view := filter.Apply(primaryFixture(), filter.Query{Entity: "Japan"})
	spec := Build(desc, view)

	byKey := map[string]string{}
	for _, s := range spec.Series {
		byKey[s.Key] = s.Name
	}
	assert.Equal(t, "Unit profits", byKey["contr_unit_profit"])
	assert.Equal(t, "contr_other", byKey["contr_other"])
}

func TestBuild_SingleSeries(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	desc, err := c.Lookup("pandemic_relative")
	require.NoError(t, err)

	query, err := QueryFor(desc, "Japan")
	require.NoError(t, err)
	spec := Build(desc, filter.Apply(primaryFixture(), query))

	require.Len(t, spec.Series, 1)
	assert.Equal(t, "contr_relative", spec.Series[0].Key)
	assert.Equal(t, []chart.Point{{X: "2019-04-01", Y: 1.8}}, spec.Series[0].Points)
	assert.False(t, spec.Layout.Legend.Show)
}

func TestBuild_EmptyViewIsNoData(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	desc, err := c.Lookup("labor_share")
	require.NoError(t, err)

	query, err := QueryFor(desc, "Atlantis")
	require.NoError(t, err)
	spec := Build(desc, filter.Apply(primaryFixture(), query))

	assert.True(t, spec.NoData)
	assert.Empty(t, spec.Series)
	assert.NotNil(t, spec.Series)
	assert.Equal(t, "Labor Share, Quarterly, Atlantis", spec.Title)
	assert.Equal(t, chart.KindLine, spec.Kind)
}

func TestBuild_IsPure(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	desc, err := c.Lookup("contributions")
	require.NoError(t, err)

	query, err := QueryFor(desc, "Japan")
	require.NoError(t, err)
	view := filter.Apply(primaryFixture(), query)
	assert.Equal(t, Build(desc, view), Build(desc, view))
}

func TestBuild_Decadal(t *testing.T) {
	avg := dataset.New(dataset.DecadalAvg, []dataset.Observation{
		{ReferenceArea: "Japan", Series: "contr_unit_labor_cost", Decade: "1990s", Stat: "mean", Value: 0.5, Valid: true},
		{ReferenceArea: "Japan", Series: "contr_unit_labor_cost", Decade: "1990s", Stat: "sd", Value: 0.2, Valid: true},
		{ReferenceArea: "Japan", Series: "contr_unit_profit", Decade: "2000s", Stat: "mean", Value: -0.1, Valid: true},
	})
	c, err := DefaultCatalog()
	require.NoError(t, err)
	desc, err := c.Lookup("decadal_contributions")
	require.NoError(t, err)

	query, err := QueryFor(desc, "Japan")
	require.NoError(t, err)
	spec := Build(desc, filter.Apply(avg, query))

	require.Len(t, spec.Series, 2)
	assert.Equal(t, "Unit labor costs", spec.Series[0].Name)
	assert.Equal(t, []chart.Point{{X: "1990s", Y: 0.5}}, spec.Series[0].Points)
	assert.Equal(t, "Unit profits", spec.Series[1].Name)
}
