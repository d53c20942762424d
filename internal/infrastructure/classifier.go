package infrastructure

import (
	"strings"

	"github.com/yourusername/ripbox-go/internal/domain"
)

// networkSignatures match transport, DNS and TLS level faults. A different
// credential cannot fix these, so the attempt policy stops escalating.
var networkSignatures = []string{
	"connection reset",
	"connection refused",
	"connection aborted",
	"timed out",
	"timeout",
	"temporary failure in name resolution",
	"name or service not known",
	"getaddrinfo",
	"nodename nor servname",
	"network is unreachable",
	"no route to host",
	"unable to connect",
	"ssl:",
	"ssl error",
	"tls",
	"certificate verify",
	"proxy error",
	"read error",
	"incomplete read",
	"remote end closed connection",
}

// permanentSignatures match content that no credential will unlock
var permanentSignatures = []string{
	"video unavailable",
	"content isn't available",
	"content is not available",
	"no longer available",
	"has been removed",
	"was removed",
	"private video",
	"this video is private",
	"this account is private",
	"not available in your country",
	"blocked it in your country",
	"geo restriction",
	"geo-restricted",
	"copyright",
	"account associated with this video has been terminated",
	"account has been terminated",
	"account has been suspended",
}

// PatternClassifier buckets engine error text by substring heuristics.
// Anything it does not recognize is FailureUnknown, which keeps credential
// escalation available: a misclassified permanent error costs extra
// attempts, the reverse would silently drop a retrievable URL.
type PatternClassifier struct{}

// NewPatternClassifier creates a new classifier
func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{}
}

// Classify maps an error message into a failure class
func (c *PatternClassifier) Classify(errText string) domain.FailureClass {
	text := strings.ToLower(errText)
	if text == "" {
		return domain.FailureUnknown
	}

	for _, sig := range networkSignatures {
		if strings.Contains(text, sig) {
			return domain.FailureNetwork
		}
	}

	for _, sig := range permanentSignatures {
		if strings.Contains(text, sig) {
			return domain.FailurePermanent
		}
	}

	return domain.FailureUnknown
}
