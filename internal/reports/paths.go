package reports

import (
	"path"
	"regexp"
	"strings"
)

var (
	parentSegment    = regexp.MustCompile(`[/\\]\.\.[/\\]`)
	leadingSeparator = regexp.MustCompile(`^[\\/]*`)
)

// SanitizePath turns a requested file path into a slash-separated path relative to a result folder.
// It reports false when the path would still leave the folder. An empty request maps to ".".
func SanitizePath(p string) (string, bool) {
	p = parentSegment.ReplaceAllString(p, "/")
	p = leadingSeparator.ReplaceAllString(p, "")
	p = path.Clean(strings.ReplaceAll(p, `\`, "/"))
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}
