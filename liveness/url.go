package liveness

import (
	"net"
	"net/url"
	"strings"
)

var reachableSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}

// TryParseAbsoluteURL returns the parsed url and true when raw is an absolute
// url with a reachable scheme and a valid host: localhost, an IP address or a
// domain ending in a top level label. Anything else, relative paths and
// single label hosts included, returns false.
func TryParseAbsoluteURL(raw string) (*url.URL, bool) {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	if !reachableSchemes[strings.ToLower(u.Scheme)] || !validHost(u.Hostname()) {
		return nil, false
	}
	return u, true
}

func validHost(host string) bool {
	if host == "" {
		return false
	}
	if strings.EqualFold(host, "localhost") || net.ParseIP(host) != nil {
		return true
	}
	labels := strings.Split(strings.TrimSuffix(host, "."), ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" || strings.HasPrefix(l, "-") || strings.HasSuffix(l, "-") {
			return false
		}
	}
	return validTopLevel(labels[len(labels)-1])
}

// validTopLevel accepts alphabetic labels of two or more letters and
// punycode labels.
func validTopLevel(label string) bool {
	if strings.HasPrefix(strings.ToLower(label), "xn--") {
		return len(label) > 4
	}
	if len(label) < 2 {
		return false
	}
	for _, r := range label {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// BaseURL strips u down to its last "/", exclusive.
func BaseURL(u string) string {
	idx := strings.LastIndex(u, "/")
	if idx < 0 {
		return ""
	}
	return u[:idx]
}

// FixBigDataURL returns bigDataURL unchanged when it is absolute, otherwise
// joins it to the directory of the file that referenced it.
func FixBigDataURL(bigDataURL, referrerURL string) string {
	if _, ok := TryParseAbsoluteURL(bigDataURL); ok {
		return bigDataURL
	}
	return BaseURL(referrerURL) + "/" + bigDataURL
}
