package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ripbox-go/internal/domain"
	"github.com/yourusername/ripbox-go/internal/infrastructure"
	"go.uber.org/zap"
)

// mockHistory collects the records a batch produces
type mockHistory struct {
	records []*domain.DownloadRecord
}

func (m *mockHistory) Create(record *domain.DownloadRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistory) FindRecent(limit int) ([]*domain.DownloadRecord, error) { return nil, nil }
func (m *mockHistory) FindByID(id string) (*domain.DownloadRecord, error)     { return nil, nil }
func (m *mockHistory) Stats() (*domain.HistoryStats, error)                   { return nil, nil }
func (m *mockHistory) Close() error                                          { return nil }

func newTestOrchestrator(executor *mockExecutor, history domain.HistoryRepository, out *bytes.Buffer) (*BatchOrchestrator, *domain.BatchSession) {
	policy := newTestPolicy(executor, defaultRegistry())
	orchestrator := NewBatchOrchestrator(policy, infrastructure.NewURLPrechecker(), history, zap.NewNop(), out)
	return orchestrator, domain.NewBatchSession()
}

func TestRun_EndToEnd_MixedBatch(t *testing.T) {
	// a: anonymous success. b: permanently gone after one attempt.
	// c: anonymous fails unknown, sweep succeeds on the second candidate.
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		switch url {
		case "https://good.example/a":
			return succeed()
		case "https://gone.example/b":
			return fail("this content is gone")
		default:
			if cfg.Credential == domain.BrowserMode("chromium") {
				return succeed()
			}
			return fail("sign in to confirm")
		}
	}}

	var out bytes.Buffer
	history := &mockHistory{}
	orchestrator, session := newTestOrchestrator(executor, history, &out)

	urls := []string{"https://good.example/a", "https://gone.example/b", "https://needs-auth.example/c"}
	result, err := orchestrator.Run(context.Background(), urls, "/tmp/out", []domain.ExportFormat{domain.FormatMP4}, session)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://good.example/a", "https://needs-auth.example/c"}, result.OKURLs)
	assert.Equal(t, []string{"https://gone.example/b"}, result.FailedURLs)
	assert.Empty(t, result.Invalid)

	// b took exactly one attempt; c locked the second sweep candidate
	require.NotNil(t, session.Lock)
	assert.Equal(t, domain.BrowserMode("chromium"), session.Lock.Mode)
	assert.Equal(t, []string{
		"none",                                        // a
		"none",                                        // b, terminal after one
		"none", "browser:firefox", "browser:chromium", // c
	}, executor.calls)

	require.Len(t, history.records, 3)
	assert.Equal(t, domain.RecordOK, history.records[0].Status)
	assert.Equal(t, domain.RecordFailed, history.records[1].Status)
	assert.Equal(t, domain.RecordOK, history.records[2].Status)
}

func TestRun_PartialFormatSuccess_BucketsURLFailed(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		if cfg.ExtractAudio {
			return fail("this content is gone")
		}
		return succeed()
	}}

	var out bytes.Buffer
	orchestrator, session := newTestOrchestrator(executor, nil, &out)

	formats := []domain.ExportFormat{domain.FormatMP4, domain.FormatMP3}
	result, err := orchestrator.Run(context.Background(), []string{"https://example.com/v"}, "/tmp/out", formats, session)

	require.NoError(t, err)
	assert.Empty(t, result.OKURLs)
	assert.Equal(t, []string{"https://example.com/v"}, result.FailedURLs,
		"partial per-format success still buckets the URL as failed")

	// both per-format lines are printed distinctly
	assert.Contains(t, out.String(), "[mp4]")
	assert.Contains(t, out.String(), "[mp3]")
	assert.Contains(t, out.String(), "this content is gone")
}

func TestRun_InvalidURLNeverReachesPolicy(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		return succeed()
	}}

	var out bytes.Buffer
	history := &mockHistory{}
	orchestrator, session := newTestOrchestrator(executor, history, &out)

	result, err := orchestrator.Run(context.Background(), []string{"ftp://example.com/v", "not a url"}, "/tmp/out", []domain.ExportFormat{domain.FormatMP4}, session)

	require.NoError(t, err)
	assert.Len(t, result.Invalid, 2)
	assert.Empty(t, executor.calls, "invalid URLs are bucketed without any engine attempt")

	require.Len(t, history.records, 2)
	assert.Equal(t, domain.RecordInvalid, history.records[0].Status)
}

func TestRun_Precheck_Idempotent(t *testing.T) {
	prechecker := infrastructure.NewURLPrechecker()
	for _, url := range []string{"https://example.com/v", "ftp://example.com/v", "not a url"} {
		first := prechecker.Check(url)
		second := prechecker.Check(url)
		assert.Equal(t, first == nil, second == nil, "verdict for %q changed between checks", url)
	}
}

func TestRun_CancellationAbortsBatch_PartialResultKept(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		if url == "https://example.com/second" {
			return domain.DownloadOutcome{}, domain.ErrCancelled
		}
		return succeed()
	}}

	var out bytes.Buffer
	orchestrator, session := newTestOrchestrator(executor, nil, &out)

	urls := []string{"https://example.com/first", "https://example.com/second", "https://example.com/third"}
	result, err := orchestrator.Run(context.Background(), urls, "/tmp/out", []domain.ExportFormat{domain.FormatMP4}, session)

	require.ErrorIs(t, err, domain.ErrCancelled)
	assert.Equal(t, []string{"https://example.com/first"}, result.OKURLs,
		"finished work survives into the partial summary")
	assert.Empty(t, result.FailedURLs,
		"cancellation is not reinterpreted as a URL failure")
	assert.Len(t, executor.calls, 2, "no further URLs after cancellation")
}

func TestRun_ContextAlreadyCancelled(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		return succeed()
	}}

	var out bytes.Buffer
	orchestrator, session := newTestOrchestrator(executor, nil, &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orchestrator.Run(ctx, []string{"https://example.com/v"}, "/tmp/out", []domain.ExportFormat{domain.FormatMP4}, session)
	require.ErrorIs(t, err, domain.ErrCancelled)
	assert.Empty(t, executor.calls)
}
