package session

import "strings"

// SanitizeRedirect returns a post sign-in redirect target that stays on
// trustedOrigin. Relative paths are resolved against the origin, absolute
// URLs on the origin pass through, and anything else lands on fallbackPath.
func SanitizeRedirect(candidate, trustedOrigin, fallbackPath string) string {
	origin := strings.TrimRight(trustedOrigin, "/")
	fallback := origin + ensureLeadingSlash(fallbackPath)

	candidate = strings.TrimSpace(candidate)
	if candidate == "" || strings.ContainsAny(candidate, "\r\n\t\\") {
		return fallback
	}

	// "//host" is scheme-relative, not a path
	if strings.HasPrefix(candidate, "/") && !strings.HasPrefix(candidate, "//") {
		return origin + candidate
	}

	if origin != "" && strings.HasPrefix(candidate, origin) {
		rest := candidate[len(origin):]
		if rest == "" || strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "?") || strings.HasPrefix(rest, "#") {
			return candidate
		}
	}

	return fallback
}

func ensureLeadingSlash(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
