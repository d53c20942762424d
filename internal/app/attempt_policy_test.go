package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/ripbox-go/internal/domain"
	"go.uber.org/zap"
)

// mockExecutor records the credential used for every call and answers from a
// scripted respond function
type mockExecutor struct {
	calls   []string // credential labels in call order
	respond func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error)
}

func (m *mockExecutor) Execute(ctx context.Context, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
	call := len(m.calls)
	m.calls = append(m.calls, cfg.Credential.String())
	return m.respond(call, url, cfg)
}

// stubClassifier classifies by marker words in the error text
type stubClassifier struct{}

func (stubClassifier) Classify(errText string) domain.FailureClass {
	switch {
	case strings.Contains(errText, "network"):
		return domain.FailureNetwork
	case strings.Contains(errText, "gone"):
		return domain.FailurePermanent
	default:
		return domain.FailureUnknown
	}
}

// stubRegistry returns a fixed candidate list
type stubRegistry struct {
	modes []domain.CredentialMode
}

func (r *stubRegistry) Sources() []domain.CredentialMode {
	return r.modes
}

func defaultRegistry() *stubRegistry {
	return &stubRegistry{modes: []domain.CredentialMode{
		domain.BrowserMode("firefox"),
		domain.BrowserMode("chromium"),
		domain.BrowserMode("chrome"),
	}}
}

func newTestPolicy(executor *mockExecutor, registry domain.CredentialRegistry) *AttemptPolicy {
	builder := NewOptionsBuilder(domain.DefaultConfig().Download, "/tmp/cookies.txt")
	return NewAttemptPolicy(executor, stubClassifier{}, registry, builder, zap.NewNop())
}

func testRequest() domain.DownloadRequest {
	return domain.DownloadRequest{
		URL:       "https://example.com/v",
		Format:    domain.FormatMP4,
		OutputDir: "/tmp/out",
	}
}

func fail(errText string) (domain.DownloadOutcome, error) {
	return domain.DownloadOutcome{Error: errText}, nil
}

func succeed() (domain.DownloadOutcome, error) {
	return domain.DownloadOutcome{OK: true, ProducedPaths: []string{"/tmp/out/v.mp4"}}, nil
}

func TestDownload_PermanentOnFirstAttempt_NeverEscalates(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		return fail("this content is gone")
	}}
	policy := newTestPolicy(executor, defaultRegistry())

	outcome, err := policy.Download(context.Background(), testRequest(), domain.NewBatchSession())

	require.NoError(t, err)
	assert.False(t, outcome.OK)
	assert.Equal(t, domain.FailurePermanent, outcome.Class)
	assert.Equal(t, []string{"none"}, executor.calls, "no credential attempt after a permanent failure")
}

func TestDownload_NetworkOnFirstAttempt_NeverEscalates(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		return fail("network is down")
	}}
	policy := newTestPolicy(executor, defaultRegistry())

	outcome, err := policy.Download(context.Background(), testRequest(), domain.NewBatchSession())

	require.NoError(t, err)
	assert.Equal(t, domain.FailureNetwork, outcome.Class)
	assert.Equal(t, []string{"none"}, executor.calls)
}

func TestDownload_AnonymousSuccess_LeavesLockUntouched(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		return succeed()
	}}
	policy := newTestPolicy(executor, defaultRegistry())

	session := domain.NewBatchSession()
	session.SetLock(domain.BrowserMode("brave"), domain.AttemptConfiguration{})

	outcome, err := policy.Download(context.Background(), testRequest(), session)

	require.NoError(t, err)
	assert.True(t, outcome.OK)
	assert.Equal(t, domain.NoCredentials, outcome.Credential)
	require.NotNil(t, session.Lock)
	assert.Equal(t, domain.BrowserMode("brave"), session.Lock.Mode)
}

func TestDownload_LockedCredentialTriedBeforeSweep(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		if cfg.Credential == domain.BrowserMode("brave") {
			return succeed()
		}
		return fail("sign in to confirm")
	}}
	policy := newTestPolicy(executor, defaultRegistry())

	session := domain.NewBatchSession()
	session.SetLock(domain.BrowserMode("brave"), domain.AttemptConfiguration{})

	outcome, err := policy.Download(context.Background(), testRequest(), session)

	require.NoError(t, err)
	assert.True(t, outcome.OK)
	assert.Equal(t, []string{"none", "browser:brave"}, executor.calls,
		"the locked credential is the first escalation, not a fresh sweep")
}

func TestDownload_LockedTerminalFailure_SkipsSweep(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		if cfg.Credential == domain.BrowserMode("brave") {
			return fail("this content is gone")
		}
		return fail("sign in to confirm")
	}}
	policy := newTestPolicy(executor, defaultRegistry())

	session := domain.NewBatchSession()
	session.SetLock(domain.BrowserMode("brave"), domain.AttemptConfiguration{})

	outcome, err := policy.Download(context.Background(), testRequest(), session)

	require.NoError(t, err)
	assert.False(t, outcome.OK)
	assert.Equal(t, domain.FailurePermanent, outcome.Class)
	assert.Equal(t, []string{"none", "browser:brave"}, executor.calls,
		"a terminal failure on the lock means the content is the problem")
}

func TestDownload_SweepLocksFirstSuccess(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		if cfg.Credential == domain.BrowserMode("chromium") {
			return succeed()
		}
		return fail("sign in to confirm")
	}}
	policy := newTestPolicy(executor, defaultRegistry())

	session := domain.NewBatchSession()
	outcome, err := policy.Download(context.Background(), testRequest(), session)

	require.NoError(t, err)
	assert.True(t, outcome.OK)
	assert.Equal(t, []string{"none", "browser:firefox", "browser:chromium"}, executor.calls)
	require.NotNil(t, session.Lock)
	assert.Equal(t, domain.BrowserMode("chromium"), session.Lock.Mode)
	assert.Equal(t, domain.BrowserMode("chromium"), session.Lock.Template.Credential)
}

func TestDownload_SweepStopsOnTerminalClass(t *testing.T) {
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		if cfg.Credential == domain.BrowserMode("chromium") {
			return fail("network is down")
		}
		return fail("sign in to confirm")
	}}
	policy := newTestPolicy(executor, defaultRegistry())

	session := domain.NewBatchSession()
	outcome, err := policy.Download(context.Background(), testRequest(), session)

	require.NoError(t, err)
	assert.False(t, outcome.OK)
	assert.Equal(t, domain.FailureNetwork, outcome.Class)
	assert.Equal(t, []string{"none", "browser:firefox", "browser:chromium"}, executor.calls,
		"remaining candidates are futile once a terminal class appears")
	assert.Nil(t, session.Lock)
}

func TestDownload_SweepExhausted_ReportsLastError(t *testing.T) {
	errors := map[domain.CredentialMode]string{
		domain.NoCredentials:          "anon refused",
		domain.BrowserMode("firefox"): "firefox refused",
		domain.BrowserMode("chromium"): "chromium refused",
		domain.BrowserMode("chrome"):  "chrome refused",
	}
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		return fail(errors[cfg.Credential])
	}}
	policy := newTestPolicy(executor, defaultRegistry())

	session := domain.NewBatchSession()
	outcome, err := policy.Download(context.Background(), testRequest(), session)

	require.NoError(t, err)
	assert.False(t, outcome.OK)
	assert.Equal(t, domain.FailureUnknown, outcome.Class)
	assert.Equal(t, "chrome refused", outcome.Error)
	assert.Len(t, executor.calls, 4)
	assert.Nil(t, session.Lock)
}

func TestDownload_LockOverwrittenByLaterSweep(t *testing.T) {
	// URL 1 locks firefox; URL 2's sweep succeeds on chromium, which becomes
	// the new lock.
	lockedOnFirefox := false
	executor := &mockExecutor{respond: func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
		if !lockedOnFirefox {
			if cfg.Credential == domain.BrowserMode("firefox") {
				lockedOnFirefox = true
				return succeed()
			}
			return fail("sign in to confirm")
		}
		if cfg.Credential == domain.BrowserMode("chromium") {
			return succeed()
		}
		return fail("sign in to confirm")
	}}
	policy := newTestPolicy(executor, defaultRegistry())
	session := domain.NewBatchSession()

	_, err := policy.Download(context.Background(), testRequest(), session)
	require.NoError(t, err)
	require.NotNil(t, session.Lock)
	assert.Equal(t, domain.BrowserMode("firefox"), session.Lock.Mode)

	second := testRequest()
	second.URL = "https://example.com/w"
	_, err = policy.Download(context.Background(), second, session)
	require.NoError(t, err)

	require.NotNil(t, session.Lock)
	assert.Equal(t, domain.BrowserMode("chromium"), session.Lock.Mode,
		"the most recent sweep success is authoritative")
	// Second URL: anonymous, locked firefox, then sweep from the top.
	assert.Equal(t, []string{
		"none", "browser:firefox",
		"none", "browser:firefox", "browser:firefox", "browser:chromium",
	}, executor.calls)
}

func TestDownload_CancellationPropagatesFromEveryState(t *testing.T) {
	for cancelAt := 0; cancelAt < 3; cancelAt++ {
		executor := &mockExecutor{}
		executor.respond = func(call int, url string, cfg domain.AttemptConfiguration) (domain.DownloadOutcome, error) {
			if call == cancelAt {
				return domain.DownloadOutcome{}, domain.ErrCancelled
			}
			return fail("sign in to confirm")
		}
		policy := newTestPolicy(executor, defaultRegistry())

		session := domain.NewBatchSession()
		session.SetLock(domain.BrowserMode("brave"), domain.AttemptConfiguration{})

		_, err := policy.Download(context.Background(), testRequest(), session)

		require.ErrorIs(t, err, domain.ErrCancelled, "cancel at call %d", cancelAt)
		assert.Len(t, executor.calls, cancelAt+1,
			"no further attempts after cancellation at call %d", cancelAt)
	}
}
