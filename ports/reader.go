package ports

import (
	"context"

	"harestats/domain/table"
)

// TableReader loads a delimited tabular file into an in-memory table.
// Implementations read the file exactly once and perform no other I/O.
type TableReader interface {
	// Read loads the file at path. It fails with core.ErrDataAccess when
	// the path cannot be opened and core.ErrParse when the content is not
	// tabular. Empty numeric cells become missing values, never zeros.
	Read(ctx context.Context, path string) (table.Table, error)
}
