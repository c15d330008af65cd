package parser

import (
	"path/filepath"
	"regexp"
)

var (
	postIDPattern = regexp.MustCompile(`-([a-f0-9]+)\.html$`)
	datePattern   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
)

// ExtractPostID returns the hex id at the end of an export filename,
// e.g. "2019-03-04_Some-Title-4f2a9c.html" -> "4f2a9c".
func ExtractPostID(filename string) (string, bool) {
	m := postIDPattern.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractDate returns the leading YYYY-MM-DD of a filename.
func ExtractDate(filename string) (string, bool) {
	m := datePattern.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return "", false
	}
	return m[1], true
}
