package domain

import "errors"

// ErrCancelled marks a user-initiated interruption. It is never converted
// into an ordinary failure: every layer returns it upward until the batch
// loop terminates.
var ErrCancelled = errors.New("cancelled by user")

// FailureClass buckets an engine error for the escalation policy
type FailureClass string

const (
	// FailureNetwork covers transport, DNS and TLS level faults. Different
	// credentials cannot fix these, so escalation stops.
	FailureNetwork FailureClass = "network"

	// FailurePermanent covers removed, private, region-blocked and similar
	// conditions. No credential unlocks genuinely gone content.
	FailurePermanent FailureClass = "permanent"

	// FailureUnknown is everything else and the only class worth escalating
	// with additional credential sources.
	FailureUnknown FailureClass = "unknown"
)

// ResultInfo is the engine's claim about what it produced. Single videos and
// playlist-style multi-item results expose a uniform candidate path accessor;
// the executor verifies those claims against the filesystem.
type ResultInfo interface {
	CandidatePaths() []string
}

// SingleItem is the result shape for one downloaded item
type SingleItem struct {
	Path string
}

// CandidatePaths returns the single claimed output path
func (s SingleItem) CandidatePaths() []string {
	if s.Path == "" {
		return nil
	}
	return []string{s.Path}
}

// MultiItem is the result shape for playlist-style downloads
type MultiItem struct {
	Entries []SingleItem
}

// CandidatePaths returns all claimed per-entry output paths
func (m MultiItem) CandidatePaths() []string {
	var paths []string
	for _, e := range m.Entries {
		paths = append(paths, e.CandidatePaths()...)
	}
	return paths
}

// DownloadOutcome is the verified result of one engine invocation.
// OK is true only when at least one produced path exists on disk; the
// engine's exit status alone is never trusted.
type DownloadOutcome struct {
	OK            bool
	Error         string
	ProducedPaths []string
}

// FormatOutcome is the terminal result of the attempt policy for one
// (URL, format) pair
type FormatOutcome struct {
	Format        ExportFormat
	OK            bool
	Credential    CredentialMode
	Error         string
	Class         FailureClass
	ProducedPaths []string
}
