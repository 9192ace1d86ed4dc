package filter

import (
	"net/url"
	"strings"
)

func hasValue(values []string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}

// decode undoes a second level of percent-encoding. Malformed escapes are
// left untouched so that untrusted input never fails a request.
func decode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// normalize joins repeated values with a comma and decodes the result.
func normalize(values []string) string {
	return decode(strings.Join(values, ","))
}

// split splits on commas and drops empty segments.
func split(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
