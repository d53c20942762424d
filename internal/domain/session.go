package domain

// BatchSession is the only mutable state shared across URL iterations in one
// interactive run. The orchestrator owns it; the attempt policy receives it
// by reference and mutates only the locked credential. Execution is strictly
// sequential, so no locking is needed.
type BatchSession struct {
	OutputDir string         // sticky across batches once chosen
	Formats   []ExportFormat // sticky across batches once chosen
	Lock      *LockedCredential
}

// NewBatchSession returns a fresh session with no sticky state
func NewBatchSession() *BatchSession {
	return &BatchSession{}
}

// Reset clears all sticky state, including the locked credential
func (s *BatchSession) Reset() {
	s.OutputDir = ""
	s.Formats = nil
	s.Lock = nil
}

// HasOutputDir reports whether a sticky output directory is set
func (s *BatchSession) HasOutputDir() bool {
	return s.OutputDir != ""
}

// HasFormats reports whether sticky export formats are set
func (s *BatchSession) HasFormats() bool {
	return len(s.Formats) > 0
}

// SetLock records the most recently successful credential source, replacing
// any prior lock
func (s *BatchSession) SetLock(mode CredentialMode, template AttemptConfiguration) {
	s.Lock = &LockedCredential{Mode: mode, Template: template}
}
