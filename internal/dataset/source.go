package dataset

import (
	"context"

	"github.com/rotisserie/eris"
)

// ErrNotFound reports that the store holds no rows for the requested
// geography and table. The orchestrator surfaces it as the no_data status.
// A geography that exists with all-zero counts is NOT ErrNotFound.
var ErrNotFound = eris.New("dataset: table not found")

// TableSource is the retrieval contract to the tabulated-count store.
// Implementations return ErrNotFound for absent data; every other error is
// treated as an upstream failure (the per-table error status, retryable by
// the caller).
type TableSource interface {
	FetchRawTable(ctx context.Context, geographyID, tableID string) (*Table, error)
}
