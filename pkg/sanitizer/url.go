package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeURL forces https, lower-cases the host and drops tracking parameters.
// Unparseable input becomes "".
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "https://"):
		s = s[len("https://"):]
	case strings.HasPrefix(lower, "http://"):
		s = s[len("http://"):]
	}

	u, err := url.Parse("https://" + s)
	if err != nil || u.Host == "" {
		return ""
	}
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if strings.HasPrefix(strings.ToLower(key), "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}
	u.Fragment = ""

	return u.String()
}
