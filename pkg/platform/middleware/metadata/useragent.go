package metadata

import (
	"strings"

	"github.com/mssola/useragent"
)

// DescribeUserAgent reduces a User-Agent header to "browser/major (os, platform)"
// for request logs. Bots and API clients keep their product name.
func DescribeUserAgent(raw string) string {
	if raw == "" {
		return "unknown"
	}

	ua := useragent.New(raw)
	name, version := ua.Browser()
	if ua.Bot() || name == "" {
		name, version = ua.Engine()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}

	major, _, _ := strings.Cut(version, ".")
	if major != "" {
		name += "/" + major
	}

	platform := "desktop"
	if ua.Mobile() {
		platform = "mobile"
	}
	if ua.Bot() {
		platform = "bot"
	}

	if os := strings.TrimSpace(ua.OS()); os != "" {
		return name + " (" + os + ", " + platform + ")"
	}
	return name + " (" + platform + ")"
}
