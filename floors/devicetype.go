package floors

import (
	"regexp"
	"strings"
)

// User-agent patterns for device classification. Each pattern must match the
// whole user-agent string; the phone set is checked before the tablet set and
// the default classification is desktop.
var (
	phonePatterns  = compileDevicePatterns("Phone", "iPhone", "Android.*Mobile", "Mobile.*Android")
	tabletPatterns = compileDevicePatterns("tablet", "iPad", "Windows NT.*touch", "touch.*Windows NT", "Android")
)

func compileDevicePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		compiled[i] = regexp.MustCompile("^(?:" + pattern + ")$")
	}
	return compiled
}

func deviceTypeFromRequest(ctx *extractionContext) []string {
	var userAgent string
	if device := ctx.request.Device; device != nil {
		userAgent = device.UA
	}

	if strings.TrimSpace(userAgent) == "" {
		return []string{catchAll}
	}

	for _, pattern := range phonePatterns {
		if pattern.MatchString(userAgent) {
			return []string{devicePhone}
		}
	}

	for _, pattern := range tabletPatterns {
		if pattern.MatchString(userAgent) {
			return []string{deviceTablet}
		}
	}

	return []string{deviceDesktop}
}
