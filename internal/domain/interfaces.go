package domain

import "context"

// Executor invokes the external extraction engine exactly once per call.
// Retry policy lives entirely in the attempt policy, so each attempt stays
// observable and interruptible. The returned error is reserved for
// cancellation (ErrCancelled / context errors); ordinary engine failures are
// reported inside the outcome.
type Executor interface {
	Execute(ctx context.Context, url string, cfg AttemptConfiguration) (DownloadOutcome, error)
}

// Classifier maps an opaque engine error message into a failure class.
// Misclassification must fail safe toward FailureUnknown so a URL is never
// dropped without a credential attempt.
type Classifier interface {
	Classify(errText string) FailureClass
}

// CredentialRegistry enumerates candidate credential sources in a fixed,
// deterministic order, excluding NoCredentials. No I/O beyond a cookie file
// existence check, no errors.
type CredentialRegistry interface {
	Sources() []CredentialMode
}

// Prechecker runs the fast syntactic/reachability check applied to every URL
// before it may enter the attempt policy. Must be idempotent.
type Prechecker interface {
	Check(url string) error
}

// HistoryRepository persists download history records
type HistoryRepository interface {
	Create(record *DownloadRecord) error
	FindRecent(limit int) ([]*DownloadRecord, error)
	FindByID(id string) (*DownloadRecord, error)
	Stats() (*HistoryStats, error)
	Close() error
}

// LogSink receives the engine's warning and error lines during a single
// executor call. The executor owns one sink per invocation and drains it
// afterward; the last recorded error is preferred over a generic process
// exit message.
type LogSink interface {
	RecordWarning(msg string)
	RecordError(msg string)
}
