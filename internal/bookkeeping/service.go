// Package bookkeeping runs statement classification for a company and
// persists the result as movements.
package bookkeeping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/Veraticus/vledger/internal/common"
	"github.com/Veraticus/vledger/internal/engine"
	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadySaved is returned when a run's movements were already stored.
var ErrAlreadySaved = errors.New("classification run already saved")

// ProgressReporter receives row counts while a statement is classified.
// Advance may be called from several goroutines.
type ProgressReporter interface {
	Start(total int, description string)
	Advance(n int)
	Done()
}

type noopProgress struct{}

func (noopProgress) Start(int, string) {}
func (noopProgress) Advance(int)       {}
func (noopProgress) Done()             {}

// Run is one classification of one statement for one company.
type Run struct {
	ProcessedAt time.Time                   `json:"processed_at"`
	Result      *model.ClassificationResult `json:"result"`
	ID          string                      `json:"id"`
	Source      string                      `json:"source"`
	CompanyID   int                         `json:"company_id"`
	Saved       bool                        `json:"saved"`
}

// Service classifies statements against stored references.
type Service struct {
	storage   service.Storage
	progress  ProgressReporter
	now       func() time.Time
	order     model.ReferenceOrder
	chunkSize int
	workers   int
}

// Option configures a Service.
type Option func(*Service)

// WithChunkSize splits statements into chunks of n rows that are classified
// in parallel. Zero classifies the statement in one pass.
func WithChunkSize(n int) Option {
	return func(s *Service) { s.chunkSize = n }
}

// WithWorkers bounds how many chunks are classified at once.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithProgress reports classification progress to p.
func WithProgress(p ProgressReporter) Option {
	return func(s *Service) {
		if p != nil {
			s.progress = p
		}
	}
}

// WithReferenceOrder sets the order references are scanned in.
func WithReferenceOrder(order model.ReferenceOrder) Option {
	return func(s *Service) { s.order = order }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a bookkeeping service backed by storage.
func NewService(storage service.Storage, opts ...Option) *Service {
	s := &Service{
		storage:  storage,
		progress: noopProgress{},
		now:      time.Now,
		order:    model.OrderInsertion,
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify matches every statement row against the company's references.
// The engine itself never touches storage: references are loaded here and
// handed over as plain values.
func (s *Service) Classify(ctx context.Context, companyID int, stmt model.Statement, opts model.Options) (*Run, error) {
	if _, err := s.storage.GetCompany(ctx, companyID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewUserError(fmt.Sprintf("Company %d does not exist", companyID), err)
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	refs, err := s.storage.ListReferences(ctx, companyID, s.order)
	if err != nil {
		return nil, fmt.Errorf("failed to load references: %w", err)
	}

	plan, err := engine.Prepare(stmt, refs, opts)
	if err != nil {
		return nil, err
	}

	start := s.now()
	result, err := s.classifyChunks(ctx, plan, stmt.Rows)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Source:      stmt.Source,
		Result:      result,
		ProcessedAt: s.now().UTC(),
	}

	slog.Info("Classified statement",
		"run", run.ID,
		"company_id", companyID,
		"references", len(refs),
		"rows", len(result.Rows),
		"unmatched", len(result.Unmatched),
		"duration", s.now().Sub(start))
	for _, warning := range result.Warnings {
		slog.Warn("Classification warning", "run", run.ID, "warning", warning)
	}

	return run, nil
}

// classifyChunks classifies rows in parallel chunks and merges them back in
// input order.
func (s *Service) classifyChunks(ctx context.Context, plan *engine.Plan, rows []model.RawRow) (*model.ClassificationResult, error) {
	s.progress.Start(len(rows), "Classifying")
	defer s.progress.Done()

	if s.chunkSize <= 0 || len(rows) <= s.chunkSize {
		result := plan.ClassifyRows(rows, 0)
		s.progress.Advance(len(rows))
		return result, nil
	}

	parts := make([]*model.ClassificationResult, (len(rows)+s.chunkSize-1)/s.chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range parts {
		offset := i * s.chunkSize
		chunk := rows[offset:min(offset+s.chunkSize, len(rows))]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[i] = plan.ClassifyRows(chunk, offset)
			s.progress.Advance(len(chunk))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classification interrupted: %w", err)
	}

	return model.MergeResults(parts...), nil
}

// Movements converts every row of the run, matched or not, into a movement.
func (r *Run) Movements() []model.Movement {
	movements := make([]model.Movement, 0, len(r.Result.Rows))
	for _, row := range r.Result.Rows {
		movements = append(movements, model.NewMovement(r.CompanyID, r.ID, row, r.ProcessedAt))
	}
	return movements
}

// Save stores the run's movements in one transaction. On failure nothing is
// stored and the run is left untouched, so Save can simply be called again.
func (s *Service) Save(ctx context.Context, run *Run) (int, error) {
	if run == nil || run.Result == nil {
		return 0, fmt.Errorf("nothing to save")
	}
	if run.Saved {
		return 0, fmt.Errorf("run %s: %w", run.ID, ErrAlreadySaved)
	}

	movements := run.Movements()
	if len(movements) == 0 {
		return 0, common.NewUserError("The statement has no rows to save", common.ErrEmptyStatement)
	}

	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := tx.SaveMovements(ctx, movements); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to save movements: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit movements: %w", err)
	}

	run.Saved = true
	slog.Info("Saved movements", "run", run.ID, "company_id", run.CompanyID, "movements", len(movements))
	return len(movements), nil
}
