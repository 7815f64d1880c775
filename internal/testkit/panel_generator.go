package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"inflationdash/domain/dataset"

	"github.com/montanaflynn/stats"
)

// PanelGeneratorConfig configures the synthetic inflation panel
type PanelGeneratorConfig struct {
	Entities []string  `json:"entities"`
	Start    time.Time `json:"start"`
	Quarters int       `json:"quarters"`
	// NullRate is the share of primary values written as empty cells
	NullRate float64 `json:"null_rate"`
	// NotedEntities get a caveat row in the notes source
	NotedEntities []string `json:"noted_entities"`
	Seed          int64    `json:"seed"`
}

// DefaultPanelConfig returns sensible defaults for panel generation
func DefaultPanelConfig() PanelGeneratorConfig {
	return PanelGeneratorConfig{
		Entities:      []string{"Türkiye", "Japan", "Canada", "Germany"},
		Start:         time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		Quarters:      36,
		NullRate:      0.05,
		NotedEntities: []string{"Canada"},
		Seed:          42,
	}
}

var (
	contributionSeries = []string{"contr_unit_labor_cost", "contr_unit_profit", "contr_unit_tax"}
	realIncomeSeries   = []string{"real_labor_comp_def", "real_surplus_def"}
)

// PanelGenerator produces raw source tables shaped like the real inputs
type PanelGenerator struct {
	config PanelGeneratorConfig
	rng    *rand.Rand
}

// NewPanelGenerator creates a generator; equal configs give equal output
func NewPanelGenerator(config PanelGeneratorConfig) *PanelGenerator {
	return &PanelGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds one raw table per dataset id
func (g *PanelGenerator) Generate() map[dataset.ID]*dataset.RawTable {
	primary := &dataset.RawTable{Name: "merged_data", Headers: []string{"reference_area", "time", "series", "value"}}
	realIncome := &dataset.RawTable{Name: "merged_data_real_incomes", Headers: []string{"reference_area", "time", "series", "value"}}
	avg := &dataset.RawTable{Name: "merged_data_avg", Headers: []string{"reference_area", "time", "decade", "var", "series", "value"}}
	notes := &dataset.RawTable{Name: "country_notes", Headers: []string{"country", "note"}}

	for _, entity := range g.config.Entities {
		sums := make(map[string]map[string][]float64)
		level := 100.0
		share := 55 + g.rng.Float64()*10

		for q := 0; q < g.config.Quarters; q++ {
			ts := g.config.Start.AddDate(0, 3*q, 0)
			stamp := ts.Format("2006-01-02")
			decade := fmt.Sprintf("%ds", ts.Year()/10*10)

			var total float64
			contributions := make([]float64, len(contributionSeries))
			for i, series := range contributionSeries {
				v := round(g.rng.NormFloat64()*1.2 + []float64{1.5, 0.8, 0.2}[i])
				contributions[i] = v
				total += v
				primary.Rows = append(primary.Rows, []string{entity, stamp, series, g.cell(v)})
				addSum(sums, decade, series, v)
			}

			if contributions[1] != 0 {
				rel := round(contributions[0] / contributions[1])
				primary.Rows = append(primary.Rows, []string{entity, stamp, "contr_relative", g.cell(rel)})
				addSum(sums, decade, "contr_relative", rel)
			}

			share = math.Max(40, math.Min(75, share+g.rng.NormFloat64()*0.5))
			primary.Rows = append(primary.Rows,
				[]string{entity, stamp, "labor_share", g.cell(round(share))},
				[]string{entity, stamp, "inflation_def", g.cell(round(total))},
				[]string{entity, stamp, "inflation_cpi", g.cell(round(total + g.rng.NormFloat64()*0.6))},
			)

			level *= 1 + g.rng.NormFloat64()*0.01
			for _, series := range realIncomeSeries {
				realIncome.Rows = append(realIncome.Rows,
					[]string{entity, stamp, series, strconv.FormatFloat(round(level+g.rng.NormFloat64()), 'f', -1, 64)})
			}
		}

		for _, decade := range sortedKeys(sums) {
			for _, series := range append(append([]string{}, contributionSeries...), "contr_relative") {
				m, err := stats.Mean(sums[decade][series])
				if err != nil {
					continue
				}
				avg.Rows = append(avg.Rows, []string{entity, "", decade, "mean", series,
					strconv.FormatFloat(round(m), 'f', -1, 64)})
			}
		}
	}

	for _, entity := range g.config.NotedEntities {
		notes.Rows = append(notes.Rows, []string{entity, fmt.Sprintf("Data for %s are seasonally adjusted.", entity)})
	}

	return map[dataset.ID]*dataset.RawTable{
		dataset.Primary:    primary,
		dataset.DecadalAvg: avg,
		dataset.RealIncome: realIncome,
		dataset.NotesID:    notes,
	}
}

// cell formats a value, blanking it at the configured null rate
func (g *PanelGenerator) cell(v float64) string {
	if g.config.NullRate > 0 && g.rng.Float64() < g.config.NullRate {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func addSum(sums map[string]map[string][]float64, decade, series string, v float64) {
	if sums[decade] == nil {
		sums[decade] = make(map[string][]float64)
	}
	sums[decade][series] = append(sums[decade][series], v)
}

func sortedKeys(m map[string]map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
