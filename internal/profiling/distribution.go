package profiling

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summarize computes descriptive statistics for a series of values
func Summarize(data []float64) (Summary, error) {
	summary := Summary{Count: len(data)}
	if len(data) == 0 {
		return summary, fmt.Errorf("cannot summarize an empty series")
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}

	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return summary, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}

	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	// gonum wants sorted input for quantiles
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	summary.Mean = RoundTo(mean, 4)
	summary.StdDev = RoundTo(stdDev, 4)
	summary.Min = min
	summary.Max = max
	summary.Median = RoundTo(median, 4)
	summary.Q1 = RoundTo(stat.Quantile(0.25, stat.Empirical, sorted, nil), 4)
	summary.Q3 = RoundTo(stat.Quantile(0.75, stat.Empirical, sorted, nil), 4)
	summary.Skewness = RoundTo(calculateSkewness(data, mean, stdDev), 4)

	return summary, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0

	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n

	// Bias correction for sample skewness
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	skewness *= correction

	return skewness
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
