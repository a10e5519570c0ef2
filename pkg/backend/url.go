package backend

import (
	"strings"
	"unicode"
)

// DefaultBaseURL is used when no backend has been configured.
const DefaultBaseURL = "http://localhost:10000"

// NormalizeBaseURL trims surrounding whitespace and strips every trailing '/'.
// Whitespace found between trailing slashes is stripped too so that applying it
// twice never changes the result.
func NormalizeBaseURL(raw string) string {
	s := strings.TrimSpace(raw)
	return strings.TrimRightFunc(s, func(r rune) bool {
		return r == '/' || unicode.IsSpace(r)
	})
}

func endpoint(baseURL, path string) string {
	return NormalizeBaseURL(baseURL) + path
}
