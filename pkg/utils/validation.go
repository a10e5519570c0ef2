package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateFileURL trims and validates an absolute http(s) URL, returning the
// parsed value or an error if the URL is empty, relative or not http(s).
func ValidateFileURL(raw string) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL %q: scheme must be http or https", s)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: missing host", s)
	}
	return u, nil
}
