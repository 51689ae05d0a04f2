package common

import "regexp"

// CompilePattern compiles pattern, prefixing it with (?i) unless caseSensitive.
func CompilePattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// WholeWordPattern returns a pattern matching keyword literally, delimited by
// word boundaries on both sides.
func WholeWordPattern(keyword string) string {
	return `(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(keyword) + `(?:$|[^\p{L}\p{N}_])`
}
