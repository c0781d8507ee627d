package prettytrace

import "strings"

// UnderlineLength returns how many characters to underline below column
// (1-based) of the line described by stream. In smart mode it is the length
// of the first top-level node whose end reaches the column, with plain text
// trimmed of surrounding whitespace; otherwise it is always 1. The result is
// never less than 1.
func UnderlineLength(stream TokenStream, column int, smart bool) int {
	if !smart {
		return 1
	}
	consumed := 0
	for _, node := range stream {
		consumed += node.Len()
		if column > consumed {
			continue
		}
		n := node.Len()
		if text, ok := node.(Text); ok {
			n = jsLen(strings.TrimSpace(string(text)))
		}
		return max(n, 1)
	}
	return 1
}
