package site

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// NormalizeURL strips query and fragment, keeping protocol+host+path.
// The same page URL always normalizes to the same string, so SiteID is
// stable across reloads. Unparseable input is returned as-is.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + u.Host + u.Path
}

// SiteID derives the filesystem-safe identifier for a page URL.
// It is a pure function of the normalized URL: base64 with the
// characters / + = replaced by underscores.
func SiteID(raw string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(NormalizeURL(raw)))
	replacer := strings.NewReplacer("/", "_", "+", "_", "=", "_")
	return replacer.Replace(encoded)
}

// Domain extracts the hostname from a URL, or "" if unparseable.
func Domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// DisplayURL shortens a URL for display. GitHub URLs keep owner/repo;
// other URLs keep hostname plus the first path segment.
func DisplayURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	parts := splitPath(u.Path)

	if u.Hostname() == "github.com" && len(parts) >= 2 {
		return u.Hostname() + "/" + parts[0] + "/" + parts[1]
	}

	if len(parts) > 0 {
		return u.Hostname() + "/" + parts[0]
	}
	return u.Hostname()
}

func splitPath(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}
