// Package ingest loads the three CSV sources through the cleaner into the
// store. A source file is all-or-nothing: every row is parsed and cleaned
// first, and nothing is written when any row fails.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailops/analytics/internal/domain/sales"
	"github.com/retailops/analytics/internal/infrastructure/config"
	"github.com/retailops/analytics/internal/infrastructure/csvio"
)

// ErrSourceRejected signals that a source file failed validation and nothing
// was written. The LoadResult accompanying it carries the row errors.
var ErrSourceRejected = errors.New("source file rejected")

// Service loads and cleans the source files.
type Service struct {
	repo         sales.DatasetRepository
	logger       *zap.Logger
	maxRowErrors int
}

// NewService creates a new ingest Service. maxRowErrors caps how many row
// errors a LoadResult retains.
func NewService(repo sales.DatasetRepository, logger *zap.Logger, maxRowErrors int) *Service {
	return &Service{
		repo:         repo,
		logger:       logger,
		maxRowErrors: maxRowErrors,
	}
}

// LoadAll loads the three sources in order: order lines, people, returns.
// The first failed source aborts the pipeline before any query can run.
func (s *Service) LoadAll(ctx context.Context, cfg config.DataConfig) (*PipelineResult, error) {
	result := &PipelineResult{}

	var err error
	if result.OrderLines, err = s.loadFile(ctx, cfg.OrderLinesPath, s.LoadOrderLines); err != nil {
		return result, err
	}
	if result.People, err = s.loadFile(ctx, cfg.PeoplePath, s.LoadPeople); err != nil {
		return result, err
	}
	if result.Returns, err = s.loadFile(ctx, cfg.ReturnsPath, s.LoadReturns); err != nil {
		return result, err
	}

	return result, nil
}

func (s *Service) loadFile(ctx context.Context, path string, load func(context.Context, io.Reader) (*LoadResult, error)) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return load(ctx, f)
}

// newResult starts a LoadResult for one source.
func (s *Service) newResult(source string) *LoadResult {
	return &LoadResult{
		BatchID: uuid.New(),
		Source:  source,
	}
}

// finish fills the result from the error collection and either persists via
// commit or rejects the file.
func (s *Service) finish(result *LoadResult, ec *csvio.ErrorCollection, commit func() error) (*LoadResult, error) {
	result.Errors = ec.Errors()
	result.TotalErrors = ec.TotalCount()
	result.IsTruncated = ec.IsTruncated()
	result.ErrorRows = ec.TotalCount()

	if ec.HasErrors() {
		s.logger.Warn("Source rejected",
			zap.String("batch_id", result.BatchID.String()),
			zap.String("source", result.Source),
			zap.Int("total_rows", result.TotalRows),
			zap.Int("row_errors", result.TotalErrors),
		)
		return result, fmt.Errorf("%s: %w: %d row error(s)", result.Source, ErrSourceRejected, result.TotalErrors)
	}

	if err := commit(); err != nil {
		return result, fmt.Errorf("%s: failed to write: %w", result.Source, err)
	}
	result.LoadedRows = result.TotalRows

	s.logger.Info("Source loaded",
		zap.String("batch_id", result.BatchID.String()),
		zap.String("source", result.Source),
		zap.Int("rows", result.LoadedRows),
	)
	return result, nil
}

// openParser builds a parser over r and checks the required columns exist.
func openParser(r io.Reader, source string, required []string) (*csvio.Parser, error) {
	parser, err := csvio.New(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if err := parser.ReadHeader(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if missing := parser.MissingColumns(required); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing required columns %v", source, missing)
	}
	return parser, nil
}
