package ports

import (
	"context"

	"inflationdash/domain/dataset"
)

// DatasetSource reads one raw table per dataset category.
// Implementations must return an error when the source for id is absent.
type DatasetSource interface {
	Read(ctx context.Context, id dataset.ID) (*dataset.RawTable, error)

	// Describe names the backing location for logs (directory, workbook, DSN)
	Describe() string
}
