package profiling

import (
	"inflationdash/domain/chart"
	"inflationdash/internal/filter"
)

// ProfileView summarizes each series of a chart's filtered view.
// An empty view yields an empty table flagged NoData.
func ProfileView(desc chart.Descriptor, view filter.View) Table {
	table := Table{
		ChartID: desc.ID,
		Title:   desc.RenderTitle(view.Entity()),
		Columns: summaryColumns,
		Rows:    []Row{},
	}
	if view.Empty() {
		table.NoData = true
		return table
	}

	for _, series := range view.Series() {
		values := view.Values(series)
		summary, err := Summarize(values)
		if err != nil {
			continue
		}
		first, last := xSpan(desc, view, series)
		table.Rows = append(table.Rows, Row{
			Series:  series,
			Label:   desc.Label(series),
			First:   first,
			Last:    last,
			Summary: summary,
		})
	}
	return table
}

func xSpan(desc chart.Descriptor, view filter.View, series string) (string, string) {
	var first, last string
	for i := 0; i < view.Len(); i++ {
		obs := view.At(i)
		if obs.Series != series {
			continue
		}
		x := obs.Field(desc.X)
		if first == "" {
			first = x
		}
		last = x
	}
	return first, last
}
