// Package sanitize gates every URL that enters block state: link targets,
// image sources, bookmark URLs and uploaded data URIs.
package sanitize

import (
	"net/url"
	"strings"
)

// URL returns raw if it parses and its scheme is exactly http or https,
// otherwise "". Callers must treat "" as "do not apply".
func URL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return ""
		}
		return raw
	}
	return ""
}

// ImageURL is the image-capable mode: it accepts everything URL accepts
// plus data URIs carrying an image payload.
func ImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:image/") && strings.Contains(raw, ",") {
		return raw
	}
	return URL(raw)
}
