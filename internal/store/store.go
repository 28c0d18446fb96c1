package store

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

// RunFilter specifies criteria for listing scan runs.
type RunFilter struct {
	Status     model.ScanStatus `json:"status,omitempty"`
	Mode       model.Mode       `json:"mode,omitempty"`
	PostalCode string           `json:"postal_code,omitempty"`
	Limit      int              `json:"limit,omitempty"`
	Offset     int              `json:"offset,omitempty"`
}

// RunOutcome carries the final metadata recorded when a scan completes.
type RunOutcome struct {
	RecordCount int
	GroupCount  int
	Coverage    *model.Coverage
	Summary     string
}

// Store defines the persistence interface for scan history.
type Store interface {
	CreateScanRun(ctx context.Context, mode model.Mode, params model.ScanParams) (*model.ScanRun, error)
	CompleteScanRun(ctx context.Context, runID string, outcome RunOutcome) error
	FailScanRun(ctx context.Context, runID string, scanErr string) error
	GetScanRun(ctx context.Context, runID string) (*model.ScanRun, error)
	ListScanRuns(ctx context.Context, filter RunFilter) ([]model.ScanRun, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// SnapshotStore is implemented by backends that can retain the latest merged
// record per property across scans. SQLite does not; Postgres does.
type SnapshotStore interface {
	UpsertProperties(ctx context.Context, props []attom.Property) (int64, error)
}
