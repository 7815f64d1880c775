package dataset

import (
	"context"
	stderrors "errors"
	"testing"

	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
	"inflationdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDatasetSource is a testify mock of ports.DatasetSource
type MockDatasetSource struct {
	mock.Mock
}

func (m *MockDatasetSource) Read(ctx context.Context, id dataset.ID) (*dataset.RawTable, error) {
	args := m.Called(ctx, id)
	raw, _ := args.Get(0).(*dataset.RawTable)
	return raw, args.Error(1)
}

func (m *MockDatasetSource) Describe() string { return "mock" }

func observationTable(name string, rows ...[]string) *dataset.RawTable {
	return &dataset.RawTable{
		Name:    name,
		Headers: []string{"reference_area", "time", "series", "value"},
		Rows:    rows,
	}
}

func fullSource() *MockDatasetSource {
	src := &MockDatasetSource{}
	src.On("Read", mock.Anything, dataset.Primary).Return(observationTable("series",
		[]string{"Japan", "2019-01-01", "contr_unit_labor_cost", "1.2"},
		[]string{"Canada", "2019-01-01", "labor_share", "55"},
	), nil)
	src.On("Read", mock.Anything, dataset.DecadalAvg).Return(&dataset.RawTable{
		Name:    "avg",
		Headers: []string{"reference_area", "time", "series", "value", "decade", "var"},
		Rows:    [][]string{{"Japan", "1990-01-01", "contr_unit_tax", "0.1", "1990s", "mean"}},
	}, nil)
	src.On("Read", mock.Anything, dataset.RealIncome).Return(observationTable("real_income",
		[]string{"Japan", "2019-01-01", "real_labor_comp_def", "100"},
	), nil)
	src.On("Read", mock.Anything, dataset.NotesID).Return(&dataset.RawTable{
		Name:    "notes",
		Headers: []string{"country", "note"},
		Rows:    [][]string{{"Canada", "Canada caveat."}},
	}, nil)
	return src
}

func TestLoad_AllDatasets(t *testing.T) {
	src := fullSource()

	store, err := Load(context.Background(), src)
	require.NoError(t, err)
	src.AssertNumberOfCalls(t, "Read", 4)

	assert.Equal(t, []string{"Japan", "Canada"}, store.Entities())
	assert.True(t, store.HasEntity("Canada"))
	assert.NoError(t, store.ValidateEntity("Japan"))
	assert.ErrorIs(t, store.ValidateEntity("Atlantis"), core.ErrUnknownEntity)
	assert.False(t, store.Fingerprint().IsEmpty())

	note, ok := store.Notes().Lookup("Canada")
	assert.True(t, ok)
	assert.Equal(t, "Canada caveat.", note)

	avg, err := store.Dataset(dataset.DecadalAvg)
	require.NoError(t, err)
	assert.Equal(t, 1, avg.Len())

	_, err = store.Dataset(dataset.ID("bogus"))
	assert.ErrorIs(t, err, core.ErrUnknownDataset)
}

func TestLoad_MissingSourceIsFatal(t *testing.T) {
	src := &MockDatasetSource{}
	src.On("Read", mock.Anything, dataset.RealIncome).Return(nil, stderrors.New("file not found"))
	src.On("Read", mock.Anything, mock.Anything).Return(observationTable("x",
		[]string{"Japan", "2019-01-01", "s", "1"},
	), nil)

	store, err := Load(context.Background(), src)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
}

func TestLoad_SchemaViolationIsFatal(t *testing.T) {
	src := &MockDatasetSource{}
	src.On("Read", mock.Anything, dataset.DecadalAvg).Return(observationTable("avg"), nil)
	src.On("Read", mock.Anything, dataset.NotesID).Return(&dataset.RawTable{
		Name: "notes", Headers: []string{"country", "note"},
	}, nil)
	src.On("Read", mock.Anything, mock.Anything).Return(observationTable("x",
		[]string{"Japan", "2019-01-01", "s", "1"},
	), nil)

	_, err := Load(context.Background(), src)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestLoad_EmptyPrimaryIsFatal(t *testing.T) {
	src := &MockDatasetSource{}
	src.On("Read", mock.Anything, dataset.NotesID).Return(&dataset.RawTable{
		Name: "notes", Headers: []string{"country", "note"},
	}, nil)
	src.On("Read", mock.Anything, dataset.DecadalAvg).Return(&dataset.RawTable{
		Name:    "avg",
		Headers: []string{"reference_area", "time", "series", "value", "decade", "var"},
	}, nil)
	src.On("Read", mock.Anything, mock.Anything).Return(observationTable("x"), nil)

	_, err := Load(context.Background(), src)
	assert.ErrorIs(t, err, core.ErrEmptySource)
}

func TestLoad_BlankReferenceAreaIsFatal(t *testing.T) {
	src := &MockDatasetSource{}
	src.On("Read", mock.Anything, dataset.Primary).Return(observationTable("series",
		[]string{"Japan", "2019-01-01", "s", "1"},
		[]string{"", "2019-04-01", "s", "2"},
	), nil)
	src.On("Read", mock.Anything, dataset.DecadalAvg).Return(&dataset.RawTable{
		Name:    "avg",
		Headers: []string{"reference_area", "time", "series", "value", "decade", "var"},
		Rows:    [][]string{{"Japan", "", "s", "0.1", "1990s", "mean"}},
	}, nil)
	src.On("Read", mock.Anything, dataset.NotesID).Return(&dataset.RawTable{
		Name: "notes", Headers: []string{"country", "note"},
	}, nil)
	src.On("Read", mock.Anything, mock.Anything).Return(observationTable("x",
		[]string{"Japan", "2019-01-01", "s", "1"},
	), nil)

	store, err := Load(context.Background(), src)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrBadCell)
}

func TestNewStore_RequiresObservationDatasets(t *testing.T) {
	_, err := NewStore(map[dataset.ID]*dataset.Dataset{
		dataset.Primary: dataset.New(dataset.Primary, nil),
	}, dataset.Notes{})
	assert.Error(t, err)
}
