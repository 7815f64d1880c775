package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inflationdash/domain/dataset"
)

func validDescriptor() Descriptor {
	return Descriptor{
		ID:        "pandemic_contributions",
		Source:    dataset.Primary,
		Kind:      KindBar,
		X:         "time",
		Y:         "value",
		Color:     "series",
		TimeFloor: "2019-01-01",
		Title:     "Percent Contributions to Annual Inflation, Quarterly, {entity}",
		Labels:    map[string]string{"contr_unit_profit": "Unit profits"},
	}
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *Descriptor)
		wantErr string
	}{
		{name: "valid", mutate: func(d *Descriptor) {}},
		{name: "missing id", mutate: func(d *Descriptor) { d.ID = "" }, wantErr: "missing id"},
		{name: "notes source", mutate: func(d *Descriptor) { d.Source = dataset.NotesID }, wantErr: "unknown source"},
		{name: "bogus source", mutate: func(d *Descriptor) { d.Source = "gdp" }, wantErr: "unknown source"},
		{name: "bad kind", mutate: func(d *Descriptor) { d.Kind = "pie" }, wantErr: "unknown kind"},
		{name: "no slot", mutate: func(d *Descriptor) { d.Title = "Static" }, wantErr: "exactly one"},
		{name: "two slots", mutate: func(d *Descriptor) { d.Title = "{entity} {entity}" }, wantErr: "exactly one"},
		{name: "bad floor", mutate: func(d *Descriptor) { d.TimeFloor = "2019/01/01" }, wantErr: "time_floor"},
		{name: "no x", mutate: func(d *Descriptor) { d.X = "" }, wantErr: "required"},
		{name: "unknown x", mutate: func(d *Descriptor) { d.X = "tme" }, wantErr: "unknown x field"},
		{name: "non-numeric y", mutate: func(d *Descriptor) { d.Y = "series" }, wantErr: "y field must be"},
		{name: "unknown color", mutate: func(d *Descriptor) { d.Color = "serie" }, wantErr: "unknown color field"},
		{name: "no color", mutate: func(d *Descriptor) { d.Color = "" }},
		{name: "decade x", mutate: func(d *Descriptor) { d.X = "decade" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDescriptor()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDescriptor_Helpers(t *testing.T) {
	d := validDescriptor()

	assert.Equal(t, "Percent Contributions to Annual Inflation, Quarterly, Japan", d.RenderTitle("Japan"))
	assert.Equal(t, "Unit profits", d.Label("contr_unit_profit"))
	assert.Equal(t, "contr_other", d.Label("contr_other"))

	floor, err := d.Floor()
	require.NoError(t, err)
	require.NotNil(t, floor)
	assert.Equal(t, 2019, floor.Year())

	d.TimeFloor = ""
	floor, err = d.Floor()
	require.NoError(t, err)
	assert.Nil(t, floor)
}

func TestSpec_PointCount(t *testing.T) {
	s := Spec{Series: []Series{
		{Points: []Point{{X: "a", Y: 1}, {X: "b", Y: 2}}},
		{Points: []Point{{X: "a", Y: 3}}},
	}}
	assert.Equal(t, 3, s.PointCount())
	assert.Equal(t, 0, Spec{}.PointCount())
}
