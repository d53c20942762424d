package domain

import "fmt"

// DownloadRequest describes one (URL, export format) download into an output
// directory. Immutable per attempt.
type DownloadRequest struct {
	URL       string
	Format    ExportFormat
	OutputDir string
}

// AttemptConfiguration is a fully materialized option set for a single
// engine invocation, derived deterministically from a DownloadRequest and a
// CredentialMode.
//
// Exactly one postprocessing policy is active per export format: video
// exports set MergeFormat and leave ExtractAudio false, audio exports set
// ExtractAudio and leave MergeFormat empty.
type AttemptConfiguration struct {
	FormatSelector string // engine format expression, e.g. "bv*+ba/b"
	MergeFormat    string // target container for video exports
	ExtractAudio   bool
	AudioCodec     string // e.g. "mp3"
	AudioQuality   string // engine VBR quality, "0" = best

	OutputDir      string
	OutputTemplate string // with the export extension already forced

	Credential CredentialMode
	CookieFile string // set for CredentialCookieFile

	Retries             int
	FragmentRetries     int
	ConcurrentFragments int
	RestrictFilenames   bool
	TrimFileName        int
	UserAgent           string
	PlayerClients       []string
	POToken             string
}

// Validate enforces the mutual exclusion between container merging and audio
// extraction
func (c AttemptConfiguration) Validate() error {
	if c.ExtractAudio && c.MergeFormat != "" {
		return fmt.Errorf("attempt configuration enables both audio extraction and container merge %q", c.MergeFormat)
	}
	if !c.ExtractAudio && c.MergeFormat == "" {
		return fmt.Errorf("attempt configuration has no postprocessing policy")
	}
	if c.Credential.Kind == CredentialCookieFile && c.CookieFile == "" {
		return fmt.Errorf("cookie file mode without a cookie file path")
	}
	if c.Credential.Kind == CredentialBrowser && c.Credential.Browser == "" {
		return fmt.Errorf("browser mode without a browser name")
	}
	return nil
}
