package chart

import (
	"fmt"
	"strings"
	"time"

	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
)

// EntitySlot is the placeholder substituted with the selected entity in titles
const EntitySlot = "{entity}"

// Kind is the rendering kind of a chart
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
)

func (k Kind) Valid() bool {
	return k == KindBar || k == KindLine
}

// Legend placement hints, in paper coordinates
type Legend struct {
	Show        bool    `yaml:"show" json:"show"`
	Orientation string  `yaml:"orientation,omitempty" json:"orientation,omitempty"`
	X           float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y           float64 `yaml:"y,omitempty" json:"y,omitempty"`
	XAnchor     string  `yaml:"xanchor,omitempty" json:"xanchor,omitempty"`
	YAnchor     string  `yaml:"yanchor,omitempty" json:"yanchor,omitempty"`
}

// Descriptor is the static definition of one chart: which dataset slice it
// draws and how the result is labeled.
type Descriptor struct {
	ID        core.ChartID      `yaml:"id" json:"id"`
	Panel     string            `yaml:"panel" json:"panel"`
	Card      string            `yaml:"card,omitempty" json:"card,omitempty"`
	Tab       string            `yaml:"tab" json:"tab"`
	Source    dataset.ID        `yaml:"source" json:"source"`
	Kind      Kind              `yaml:"kind" json:"kind"`
	Series    []string          `yaml:"series,omitempty" json:"series,omitempty"`
	Stat      string            `yaml:"stat,omitempty" json:"stat,omitempty"`
	TimeFloor string            `yaml:"time_floor,omitempty" json:"time_floor,omitempty"`
	X         string            `yaml:"x" json:"x"`
	Y         string            `yaml:"y" json:"y"`
	Color     string            `yaml:"color,omitempty" json:"color,omitempty"`
	Labels    map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Title     string            `yaml:"title" json:"title"`
	TitleSize int               `yaml:"title_size,omitempty" json:"title_size,omitempty"`
	Legend    Legend            `yaml:"legend" json:"legend"`
}

// RenderTitle fills the entity slot
func (d Descriptor) RenderTitle(entity string) string {
	return strings.Replace(d.Title, EntitySlot, entity, 1)
}

// Label maps a raw series identifier to its display name, passing unknown ones through
func (d Descriptor) Label(series string) string {
	if l, ok := d.Labels[series]; ok && l != "" {
		return l
	}
	return series
}

// Floor parses TimeFloor. A nil result means no lower bound.
func (d Descriptor) Floor() (*time.Time, error) {
	if d.TimeFloor == "" {
		return nil, nil
	}
	t, err := core.ParseTime(d.TimeFloor)
	if err != nil {
		return nil, fmt.Errorf("chart %s: time_floor: %w", d.ID, err)
	}
	return &t, nil
}

// Validate checks the descriptor is internally consistent
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("chart descriptor missing id")
	}
	if d.Source == dataset.NotesID || !d.Source.Valid() {
		return fmt.Errorf("chart %s: unknown source %q", d.ID, d.Source)
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("chart %s: unknown kind %q", d.ID, d.Kind)
	}
	if d.X == "" || d.Y == "" {
		return fmt.Errorf("chart %s: x and y fields are required", d.ID)
	}
	if !dataset.IsField(d.X) {
		return fmt.Errorf("chart %s: unknown x field %q", d.ID, d.X)
	}
	if d.Y != dataset.ValueField {
		return fmt.Errorf("chart %s: y field must be %q, got %q", d.ID, dataset.ValueField, d.Y)
	}
	if d.Color != "" && !dataset.IsField(d.Color) {
		return fmt.Errorf("chart %s: unknown color field %q", d.ID, d.Color)
	}
	if n := strings.Count(d.Title, EntitySlot); n != 1 {
		return fmt.Errorf("chart %s: title must contain exactly one %s slot, found %d", d.ID, EntitySlot, n)
	}
	if _, err := d.Floor(); err != nil {
		return err
	}
	return nil
}

// Point is one plotted value
type Point struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// Series is one trace, already relabeled
type Series struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Layout carries presentation hints. Empty axis titles mean suppressed.
type Layout struct {
	TitleSize  int    `json:"title_size,omitempty"`
	XAxisTitle string `json:"x_axis_title,omitempty"`
	YAxisTitle string `json:"y_axis_title,omitempty"`
	Legend     Legend `json:"legend"`
}

// Spec is a renderer-agnostic chart specification
type Spec struct {
	ChartID core.ChartID `json:"chart_id"`
	Kind    Kind         `json:"kind"`
	Title   string       `json:"title"`
	X       string       `json:"x"`
	Y       string       `json:"y"`
	Color   string       `json:"color,omitempty"`
	Layout  Layout       `json:"layout"`
	Series  []Series     `json:"series"`
	NoData  bool         `json:"no_data"`
}

// PointCount sums points across series
func (s Spec) PointCount() int {
	n := 0
	for _, sr := range s.Series {
		n += len(sr.Points)
	}
	return n
}
