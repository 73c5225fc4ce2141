package cache

import (
	"path"
	"strings"
)

const globChars = "*?["

// MatchPattern reports whether key matches pattern.
// Patterns containing *, ? or [ are globs; anything else matches as a substring.
func MatchPattern(pattern, key string) bool {
	if strings.ContainsAny(pattern, globChars) {
		ok, err := path.Match(pattern, key)
		return err == nil && ok
	}
	return strings.Contains(key, pattern)
}

// redisPattern converts pattern to the glob understood by Redis SCAN MATCH.
func redisPattern(pattern string) string {
	if strings.ContainsAny(pattern, globChars) {
		return pattern
	}
	escaped := strings.ReplaceAll(pattern, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "]", `\]`)
	return "*" + escaped + "*"
}
