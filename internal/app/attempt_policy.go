package app

import (
	"context"

	"github.com/yourusername/ripbox-go/internal/domain"
	"go.uber.org/zap"
)

// AttemptPolicy is the escalation state machine for a single (URL, format)
// pair: NoCredentials, then the session's locked credential if one exists,
// then a sweep over the registry. Network and permanent failures are terminal
// at every state; only unknown failures escalate. Cancellation from the
// executor aborts the whole batch and is never rewritten into a format
// failure.
type AttemptPolicy struct {
	executor   domain.Executor
	classifier domain.Classifier
	registry   domain.CredentialRegistry
	builder    *OptionsBuilder
	logger     *zap.Logger
}

// NewAttemptPolicy creates a new attempt policy
func NewAttemptPolicy(
	executor domain.Executor,
	classifier domain.Classifier,
	registry domain.CredentialRegistry,
	builder *OptionsBuilder,
	logger *zap.Logger,
) *AttemptPolicy {
	return &AttemptPolicy{
		executor:   executor,
		classifier: classifier,
		registry:   registry,
		builder:    builder,
		logger:     logger,
	}
}

// Download runs the escalation ladder for one (URL, format) pair. The
// returned error is non-nil only for cancellation; every ordinary result,
// success or terminal failure, arrives as a FormatOutcome.
func (p *AttemptPolicy) Download(ctx context.Context, req domain.DownloadRequest, session *domain.BatchSession) (domain.FormatOutcome, error) {
	// State 1: no credentials
	cfg := p.builder.Build(req, domain.NoCredentials)
	out, err := p.executor.Execute(ctx, req.URL, cfg)
	if err != nil {
		return domain.FormatOutcome{}, err
	}
	if out.OK {
		// Anonymous success leaves any existing lock untouched
		return p.success(req, domain.NoCredentials, out), nil
	}

	class := p.classifier.Classify(out.Error)
	p.logAttempt(req, domain.NoCredentials, out.Error, class)
	if class != domain.FailureUnknown {
		return p.failure(req, domain.NoCredentials, out.Error, class), nil
	}

	// State 2: locked credential, when a prior sweep found one
	if session.Lock != nil {
		mode := session.Lock.Mode
		cfg := p.builder.Build(req, mode)
		out, err := p.executor.Execute(ctx, req.URL, cfg)
		if err != nil {
			return domain.FormatOutcome{}, err
		}
		if out.OK {
			return p.success(req, mode, out), nil
		}

		class := p.classifier.Classify(out.Error)
		p.logAttempt(req, mode, out.Error, class)
		if class != domain.FailureUnknown {
			// A previously working credential failing this way means the
			// content itself is the problem; the sweep is skipped.
			return p.failure(req, mode, out.Error, class), nil
		}
	}

	// State 3: credential sweep in registry order
	lastErr := out.Error
	lastMode := domain.NoCredentials
	for _, mode := range p.registry.Sources() {
		cfg := p.builder.Build(req, mode)
		out, err := p.executor.Execute(ctx, req.URL, cfg)
		if err != nil {
			return domain.FormatOutcome{}, err
		}
		if out.OK {
			// The most recent success becomes authoritative for the rest of
			// the batch, overwriting any prior lock.
			session.SetLock(mode, cfg)
			p.logger.Info("Credential locked",
				zap.String("url", req.URL),
				zap.String("credential", mode.String()))
			return p.success(req, mode, out), nil
		}

		class := p.classifier.Classify(out.Error)
		p.logAttempt(req, mode, out.Error, class)
		if class != domain.FailureUnknown {
			// Network and permanent classes are properties of the content or
			// the network, not the credential. Remaining candidates are
			// futile.
			return p.failure(req, mode, out.Error, class), nil
		}

		lastErr = out.Error
		lastMode = mode
	}

	// Sweep exhausted without success
	return p.failure(req, lastMode, lastErr, domain.FailureUnknown), nil
}

func (p *AttemptPolicy) success(req domain.DownloadRequest, mode domain.CredentialMode, out domain.DownloadOutcome) domain.FormatOutcome {
	p.logger.Info("Download succeeded",
		zap.String("url", req.URL),
		zap.String("format", string(req.Format)),
		zap.String("credential", mode.String()),
		zap.Strings("files", out.ProducedPaths))
	return domain.FormatOutcome{
		Format:        req.Format,
		OK:            true,
		Credential:    mode,
		ProducedPaths: out.ProducedPaths,
	}
}

func (p *AttemptPolicy) failure(req domain.DownloadRequest, mode domain.CredentialMode, errText string, class domain.FailureClass) domain.FormatOutcome {
	return domain.FormatOutcome{
		Format:     req.Format,
		Credential: mode,
		Error:      errText,
		Class:      class,
	}
}

func (p *AttemptPolicy) logAttempt(req domain.DownloadRequest, mode domain.CredentialMode, errText string, class domain.FailureClass) {
	p.logger.Info("Attempt failed",
		zap.String("url", req.URL),
		zap.String("format", string(req.Format)),
		zap.String("credential", mode.String()),
		zap.String("class", string(class)),
		zap.String("error", errText))
}
