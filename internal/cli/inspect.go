package cli

import (
	"fmt"

	"inflationdash/app"
	"inflationdash/domain/chart"
	"inflationdash/domain/core"
	"inflationdash/internal/errors"
	"inflationdash/internal/profiling"
)

// inspectJSON is the JSON output structure for the inspect command.
type inspectJSON struct {
	Entity    string            `json:"entity"`
	TimeRange []string          `json:"time_range"`
	NoData    bool              `json:"no_data"`
	Note      string            `json:"note"`
	Charts    []chart.Spec      `json:"charts,omitempty"`
	Tables    []profiling.Table `json:"tables,omitempty"`
}

// Execute implements the go-flags Commander interface for InspectCommand.
func (c *InspectCommand) Execute(args []string) error {
	svc, err := setup(c.globals)
	if err != nil {
		return err
	}
	return c.executeWithService(svc)
}

func (c *InspectCommand) executeWithService(svc *app.DashboardService) error {
	entity := c.Entity
	if entity == "" {
		entity = svc.DefaultEntity()
	}

	snap, err := svc.SnapshotFor(entity)
	if err != nil {
		return err
	}

	charts, tables := snap.Charts, snap.Tables
	if c.Chart != "" {
		i, err := chartIndex(charts, core.ChartID(c.Chart))
		if err != nil {
			return err
		}
		charts, tables = charts[i:i+1], tables[i:i+1]
	}
	if c.Tables {
		charts = nil
	} else {
		tables = nil
	}

	if wantJSON(c.globals) {
		return printJSON(inspectJSON{
			Entity:    snap.Entity,
			TimeRange: snap.TimeRange.Labels(),
			NoData:    snap.TimeRange.NoData,
			Note:      snap.Note,
			Charts:    charts,
			Tables:    tables,
		})
	}

	fmt.Printf("Entity:      %s\n", snap.Entity)
	fmt.Printf("Time range:  %s\n", snap.TimeRange)
	fmt.Printf("Note:        %s\n", snap.Note)

	if len(charts) > 0 {
		fmt.Println()
		fmt.Println("Charts:")
		for _, spec := range charts {
			status := fmt.Sprintf("%d series, %d points", len(spec.Series), spec.PointCount())
			if spec.NoData {
				status = "no data"
			}
			fmt.Printf("  %-26s %-4s %-22s %s\n", spec.ChartID, spec.Kind, status, spec.Title)
		}
	}

	for _, table := range tables {
		fmt.Println()
		fmt.Println(table.Title)
		if table.NoData {
			fmt.Println("  no data")
			continue
		}
		fmt.Printf("  %-32s %8s %10s %10s %10s %10s\n", "Series", "N", "Mean", "Median", "Min", "Max")
		for _, row := range table.Rows {
			fmt.Printf("  %-32s %8d %10.3f %10.3f %10.3f %10.3f\n",
				row.Label, row.Count, row.Mean, row.Median, row.Min, row.Max)
		}
	}
	return nil
}

func chartIndex(specs []chart.Spec, id core.ChartID) (int, error) {
	for i, spec := range specs {
		if spec.ChartID == id {
			return i, nil
		}
	}
	return -1, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %s", core.ErrUnknownChart, id))
}
