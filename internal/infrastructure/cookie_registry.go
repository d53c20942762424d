package infrastructure

import (
	"os"

	"github.com/yourusername/ripbox-go/internal/domain"
)

// browserNames is the fixed sweep order over browser cookie stores
var browserNames = []string{
	"firefox",
	"chromium",
	"chrome",
	"brave",
	"edge",
	"opera",
	"vivaldi",
}

// CookieRegistry enumerates credential sources. When the configured static
// cookie file exists it is the sole candidate: a pre-authorized file is
// authoritative and cheaper to retry than scanning browser profiles. The
// existence check happens once at construction, so Sources is deterministic
// and side-effect free.
type CookieRegistry struct {
	cookieFile    string
	cookieFileSet bool
}

// NewCookieRegistry creates a registry for the given cookie file path. An
// empty path disables the cookie file source.
func NewCookieRegistry(cookieFile string) *CookieRegistry {
	r := &CookieRegistry{cookieFile: cookieFile}
	if cookieFile != "" {
		if _, err := os.Stat(cookieFile); err == nil {
			r.cookieFileSet = true
		}
	}
	return r
}

// CookieFile returns the configured cookie file path
func (r *CookieRegistry) CookieFile() string {
	return r.cookieFile
}

// Sources returns the ordered candidate credential modes, excluding the
// anonymous mode
func (r *CookieRegistry) Sources() []domain.CredentialMode {
	if r.cookieFileSet {
		return []domain.CredentialMode{domain.CookieFileMode()}
	}

	modes := make([]domain.CredentialMode, 0, len(browserNames))
	for _, name := range browserNames {
		modes = append(modes, domain.BrowserMode(name))
	}
	return modes
}
