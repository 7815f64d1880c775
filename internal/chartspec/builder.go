package chartspec

import (
	"inflationdash/domain/chart"
	"inflationdash/internal/filter"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4C72B0", "#DD8452", "#55A868", "#C44E52", "#8172B3",
	"#937860", "#DA8BC3", "#8C8C8C", "#CCB974", "#64B5CD",
}

// QueryFor builds the filter query a descriptor implies for entity
func QueryFor(desc chart.Descriptor, entity string) (filter.Query, error) {
	floor, err := desc.Floor()
	if err != nil {
		return filter.Query{}, err
	}
	return filter.Query{
		Entity:    entity,
		Series:    desc.Series,
		TimeFloor: floor,
		Stat:      desc.Stat,
	}, nil
}

// Build turns a filtered view into a chart spec. It is pure: the same
// descriptor and view always produce an equal spec.
func Build(desc chart.Descriptor, view filter.View) chart.Spec {
	spec := chart.Spec{
		ChartID: desc.ID,
		Kind:    desc.Kind,
		Title:   desc.RenderTitle(view.Entity()),
		X:       desc.X,
		Y:       desc.Y,
		Color:   desc.Color,
		Layout: chart.Layout{
			TitleSize: desc.TitleSize,
			Legend:    desc.Legend,
		},
		Series: []chart.Series{},
	}

	if view.Empty() {
		spec.NoData = true
		return spec
	}

	if desc.Color == "" {
		spec.Series = buildSingleSeries(desc, view)
	} else {
		spec.Series = buildColoredSeries(desc, view)
	}
	return spec
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(desc chart.Descriptor, view filter.View) []chart.Series {
	points := make([]chart.Point, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		obs := view.At(i)
		points = append(points, chart.Point{X: obs.Field(desc.X), Y: obs.Value})
	}

	key := desc.Y
	if names := view.Series(); len(names) == 1 {
		key = names[0]
	}
	return []chart.Series{{
		Key:    key,
		Name:   desc.Label(key),
		Color:  defaultColors[0],
		Points: points,
	}}
}

// buildColoredSeries splits rows into one trace per value of the color field,
// in first-appearance order.
func buildColoredSeries(desc chart.Descriptor, view filter.View) []chart.Series {
	var order []string
	byKey := make(map[string][]chart.Point)
	for i := 0; i < view.Len(); i++ {
		obs := view.At(i)
		key := obs.Field(desc.Color)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], chart.Point{X: obs.Field(desc.X), Y: obs.Value})
	}

	series := make([]chart.Series, 0, len(order))
	for i, key := range order {
		series = append(series, chart.Series{
			Key:    key,
			Name:   desc.Label(key),
			Color:  defaultColors[i%len(defaultColors)],
			Points: byKey[key],
		})
	}
	return series
}
