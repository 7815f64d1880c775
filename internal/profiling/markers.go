package profiling

import (
	"inflationdash/domain/core"
)

// Summary holds descriptive statistics for one series
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	Skewness float64 `json:"skewness"`
}

// Row is one series line of a summary table
type Row struct {
	Series string `json:"series"`
	Label  string `json:"label"`
	First  string `json:"first"` // first x value observed
	Last   string `json:"last"`
	Summary
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Table is the tabular companion of one chart
type Table struct {
	ChartID core.ChartID `json:"chart_id"`
	Title   string       `json:"title"`
	Columns []Column     `json:"columns"`
	Rows    []Row        `json:"rows"`
	NoData  bool         `json:"no_data"`
}

var summaryColumns = []Column{
	{Key: "label", Label: "Series", Type: "text", Align: "left"},
	{Key: "first", Label: "From", Type: "text", Align: "left"},
	{Key: "last", Label: "To", Type: "text", Align: "left"},
	{Key: "count", Label: "N", Type: "number", Align: "right"},
	{Key: "mean", Label: "Mean", Type: "number", Align: "right"},
	{Key: "median", Label: "Median", Type: "number", Align: "right"},
	{Key: "std_dev", Label: "Std. dev.", Type: "number", Align: "right"},
	{Key: "min", Label: "Min", Type: "number", Align: "right"},
	{Key: "q1", Label: "Q1", Type: "number", Align: "right"},
	{Key: "q3", Label: "Q3", Type: "number", Align: "right"},
	{Key: "max", Label: "Max", Type: "number", Align: "right"},
}
