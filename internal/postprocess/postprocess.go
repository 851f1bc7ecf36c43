// Package postprocess strips a raw LLM completion down to the bare
// translated string, removing reasoning and explanation artifacts.
package postprocess

import "strings"

// thinkingMarkers are phrases an LLM may emit before the actual translation.
// Order matters: each marker is checked against the current (already
// truncated) text, so several markers can chain on one response.
var thinkingMarkers = []string{
	"<think>",
	"</think>",
	"Let me translate",
	"I need to translate",
	"Translating from",
	"Translating to",
	"Here's the translation",
	"The translation is:",
	"Translation:",
}

// Clean removes LLM artifacts from a raw completion in three phases and
// returns the trimmed result:
//  1. Thinking marker truncation: for each marker in order, a
//     case-insensitive search over the current text; on a match everything
//     up to and including the marker is discarded.
//  2. Trailing explanation removal: text is cut at the first blank line.
//  3. Quote wrapping removal.
//
// A response consumed entirely by truncation comes back as the empty
// string; callers treat that as a failed translation.
func Clean(text string) string {
	text = strings.TrimSpace(text)

	for _, marker := range thinkingMarkers {
		// asciiLower keeps byte offsets aligned with text, unlike
		// strings.ToLower which changes the width of some runes.
		idx := strings.Index(asciiLower(text), asciiLower(marker))
		if idx < 0 {
			continue
		}
		text = strings.TrimSpace(text[idx+len(marker):])
	}

	// Anything after a blank line is commentary, not translation.
	if idx := strings.Index(text, "\n\n"); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}

	return removeQuoteWrapping(text)
}

// asciiLower folds only ASCII letters, so it is byte-length-preserving and
// the returned string can be indexed with offsets from the original. The
// markers are all ASCII; non-ASCII runes never match them.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// removeQuoteWrapping strips a matching pair of outer quotes when the entire
// text is wrapped in them (a common LLM artifact).  Supported pairs:
//
//	"…"  '…'  «…»  "…"  '…'
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '\'' && last == '\'') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') || // " "
		(first == '‘' && last == '’') { //  ' '
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
