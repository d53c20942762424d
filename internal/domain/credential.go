package domain

// CredentialKind identifies which class of credential source produced a
// configuration
type CredentialKind string

const (
	CredentialNone       CredentialKind = "none"
	CredentialCookieFile CredentialKind = "cookiefile"
	CredentialBrowser    CredentialKind = "browser"
)

// CredentialMode names a single credential source: no credentials, a static
// cookie file, or a named browser cookie store
type CredentialMode struct {
	Kind    CredentialKind
	Browser string // set only for CredentialBrowser
}

// NoCredentials is the anonymous mode used for the first attempt of every
// (URL, format) pair
var NoCredentials = CredentialMode{Kind: CredentialNone}

// CookieFileMode builds the static cookie file mode
func CookieFileMode() CredentialMode {
	return CredentialMode{Kind: CredentialCookieFile}
}

// BrowserMode builds a browser cookie store mode for the given browser name
func BrowserMode(name string) CredentialMode {
	return CredentialMode{Kind: CredentialBrowser, Browser: name}
}

// IsAnonymous reports whether the mode carries no credential material
func (m CredentialMode) IsAnonymous() bool {
	return m.Kind == CredentialNone
}

// String returns a short label used in logs and the history store
func (m CredentialMode) String() string {
	if m.Kind == CredentialBrowser {
		return "browser:" + m.Browser
	}
	return string(m.Kind)
}

// LockedCredential remembers a credential source that succeeded during a
// sweep, together with the configuration it produced. It is reused for
// subsequent URLs in the same session until a later sweep overwrites it.
type LockedCredential struct {
	Mode     CredentialMode
	Template AttemptConfiguration
}
