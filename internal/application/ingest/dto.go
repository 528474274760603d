package ingest

import (
	"github.com/google/uuid"

	"github.com/retailops/analytics/internal/infrastructure/csvio"
)

// LoadResult describes the outcome of loading one source file.
type LoadResult struct {
	BatchID     uuid.UUID        `json:"batch_id"`
	Source      string           `json:"source"`
	TotalRows   int              `json:"total_rows"`
	LoadedRows  int              `json:"loaded_rows"`
	ErrorRows   int              `json:"error_rows"`
	Errors      []csvio.RowError `json:"errors,omitempty"`
	IsTruncated bool             `json:"is_truncated,omitempty"`
	TotalErrors int              `json:"total_errors,omitempty"`
}

// PipelineResult collects the per-source results of a full load.
type PipelineResult struct {
	OrderLines *LoadResult `json:"order_lines"`
	People     *LoadResult `json:"people"`
	Returns    *LoadResult `json:"returns"`
}
