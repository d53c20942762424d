package domain

// InvalidURL records a URL rejected by the pre-check, with the reason
type InvalidURL struct {
	URL    string
	Reason string
}

// URLReport collects the per-format outcomes for one URL. The URL counts as
// ok only when every requested format succeeded; any terminal per-format
// failure buckets the whole URL as failed, even though partial output may
// exist on disk.
type URLReport struct {
	URL      string
	Outcomes []FormatOutcome
}

// OK reports whether all formats succeeded
func (r URLReport) OK() bool {
	if len(r.Outcomes) == 0 {
		return false
	}
	for _, o := range r.Outcomes {
		if !o.OK {
			return false
		}
	}
	return true
}

// BatchResult is the tri-partition summary of one batch run, built
// incrementally and never persisted as a whole
type BatchResult struct {
	OKURLs     []string
	FailedURLs []string
	Invalid    []InvalidURL
	Reports    []URLReport
}

// AddReport buckets a completed URL report into ok or failed
func (b *BatchResult) AddReport(report URLReport) {
	b.Reports = append(b.Reports, report)
	if report.OK() {
		b.OKURLs = append(b.OKURLs, report.URL)
	} else {
		b.FailedURLs = append(b.FailedURLs, report.URL)
	}
}

// AddInvalid records a URL that never reached the attempt policy
func (b *BatchResult) AddInvalid(url, reason string) {
	b.Invalid = append(b.Invalid, InvalidURL{URL: url, Reason: reason})
}

// Total returns the number of URLs seen by the batch
func (b *BatchResult) Total() int {
	return len(b.OKURLs) + len(b.FailedURLs) + len(b.Invalid)
}
