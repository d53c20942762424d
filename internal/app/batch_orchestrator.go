package app

import (
	"context"
	"fmt"
	"io"

	"github.com/yourusername/ripbox-go/internal/domain"
	"go.uber.org/zap"
)

// BatchOrchestrator iterates a URL batch one URL at a time, one format at a
// time. URLs failing the fast pre-check go straight to the invalid bucket;
// everything else runs through the attempt policy per requested format. An
// individual URL's failure never aborts the batch, cancellation always does.
type BatchOrchestrator struct {
	policy     *AttemptPolicy
	prechecker domain.Prechecker
	history    domain.HistoryRepository // optional, nil disables recording
	logger     *zap.Logger
	out        io.Writer // user-visible per-format lines
}

// NewBatchOrchestrator creates a new batch orchestrator
func NewBatchOrchestrator(
	policy *AttemptPolicy,
	prechecker domain.Prechecker,
	history domain.HistoryRepository,
	logger *zap.Logger,
	out io.Writer,
) *BatchOrchestrator {
	return &BatchOrchestrator{
		policy:     policy,
		prechecker: prechecker,
		history:    history,
		logger:     logger,
		out:        out,
	}
}

// Run processes the batch. The returned BatchResult is valid even when the
// error is ErrCancelled: it holds everything finished before the
// interruption, so the caller can still print a partial summary.
func (o *BatchOrchestrator) Run(
	ctx context.Context,
	urls []string,
	outputDir string,
	formats []domain.ExportFormat,
	session *domain.BatchSession,
) (domain.BatchResult, error) {
	var result domain.BatchResult

	for _, url := range urls {
		if ctx.Err() != nil {
			return result, domain.ErrCancelled
		}

		if err := o.prechecker.Check(url); err != nil {
			result.AddInvalid(url, err.Error())
			fmt.Fprintf(o.out, "✗ invalid: %s: %s\n", url, err.Error())
			o.record(domain.NewInvalidRecord(url, err.Error()))
			continue
		}

		report := domain.URLReport{URL: url}
		cancelled := false

		for _, format := range formats {
			req := domain.DownloadRequest{URL: url, Format: format, OutputDir: outputDir}
			outcome, err := o.policy.Download(ctx, req, session)
			if err != nil {
				cancelled = true
				break
			}

			report.Outcomes = append(report.Outcomes, outcome)
			o.record(domain.NewRecordFromOutcome(url, outcome))

			if outcome.OK {
				fmt.Fprintf(o.out, "✓ %s [%s] (%s)\n", url, format, outcome.Credential)
			} else {
				fmt.Fprintf(o.out, "✗ %s [%s]: %s\n", url, format, outcome.Error)
			}
		}

		if cancelled {
			// The interrupted URL is neither ok nor failed; the partial
			// result covers only completed work.
			return result, domain.ErrCancelled
		}

		result.AddReport(report)
	}

	return result, nil
}

// record writes a history row, best effort
func (o *BatchOrchestrator) record(record *domain.DownloadRecord) {
	if o.history == nil {
		return
	}
	if err := o.history.Create(record); err != nil {
		o.logger.Warn("Failed to record download history",
			zap.String("url", record.URL),
			zap.Error(err))
	}
}
