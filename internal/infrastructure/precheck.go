package infrastructure

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// URLPrechecker runs the fast syntactic check applied to every URL before it
// may reach the attempt policy. The verdict depends only on the URL string,
// so repeated checks of the same input always agree.
type URLPrechecker struct {
	validate *validator.Validate
}

// NewURLPrechecker creates a new prechecker
func NewURLPrechecker() *URLPrechecker {
	v := validator.New()
	_ = v.RegisterValidation("media_url", validateMediaURL)
	return &URLPrechecker{validate: v}
}

// Check returns a descriptive error when the URL cannot be a downloadable
// media source
func (p *URLPrechecker) Check(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("empty URL")
	}
	if err := p.validate.Var(rawURL, "required,media_url"); err != nil {
		return fmt.Errorf("not a downloadable http(s) URL")
	}
	return nil
}

func validateMediaURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	if u.Host == "" {
		return false
	}

	host := u.Hostname()

	forbiddenHosts := []string{
		"localhost",
		"127.0.0.1",
		"::1",
		"0.0.0.0",
		"169.254.169.254",
	}
	for _, forbidden := range forbiddenHosts {
		if strings.EqualFold(host, forbidden) {
			return false
		}
	}

	if ip := net.ParseIP(host); ip != nil {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			return false
		}
	}

	return true
}
