package core

import (
	"fmt"
	"strings"
	"time"
)

// Quarter is a calendar quarter, labelled "YYYY-Qn"
type Quarter struct {
	Year    int
	Quarter int
}

// QuarterOf returns the quarter containing t
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Quarter: (int(t.Month())-1)/3 + 1}
}

// String renders the quarter label
func (q Quarter) String() string {
	return fmt.Sprintf("%d-Q%d", q.Year, q.Quarter)
}

// Before orders quarters chronologically
func (q Quarter) Before(o Quarter) bool {
	if q.Year != o.Year {
		return q.Year < o.Year
	}
	return q.Quarter < o.Quarter
}

// TimeRange is the span of quarters an entity has data for.
// NoData is the designated value for entities without any rows.
type TimeRange struct {
	Start  Quarter `json:"-"`
	End    Quarter `json:"-"`
	NoData bool    `json:"no_data"`
}

// NoTimeRange is returned when an entity has no observations
var NoTimeRange = TimeRange{NoData: true}

// NewTimeRange builds a range from the earliest and latest observation times
func NewTimeRange(first, last time.Time) TimeRange {
	start, end := QuarterOf(first), QuarterOf(last)
	if end.Before(start) {
		start, end = end, start
	}
	return TimeRange{Start: start, End: end}
}

// Labels returns [start, end] labels, or nil when there is no data
func (r TimeRange) Labels() []string {
	if r.NoData {
		return nil
	}
	return []string{r.Start.String(), r.End.String()}
}

func (r TimeRange) String() string {
	if r.NoData {
		return "no data"
	}
	return strings.Join(r.Labels(), " through ")
}

// ISO layouts accepted for the time column
var timeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseTime parses an ISO date or timestamp from a dataset source
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
