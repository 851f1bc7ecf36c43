// Package placeholder protects interpolation tokens in localization
// strings ({playerName}, printf verbs, HTML/XML tags) during translation by
// replacing them with numbered markers ([PH0], [PH1], …) that LLMs are
// instructed to preserve. After translation, Restore substitutes the
// markers back.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// curly-brace interpolation tokens: {playerName}, {0}, {item_count}
	reCurlyToken = regexp.MustCompile(`\{[A-Za-z0-9_]+\}`)

	// printf-style verbs: %s, %d, %.2f, %1$s
	rePrintfVerb = regexp.MustCompile(`%(?:\d+\$)?[-+ #0]*\d*(?:\.\d+)?[sdifux]`)

	// HTML/XML tags: opening, closing, and self-closing
	reHTMLTag = regexp.MustCompile(`<[^>]+>`)

	// placeholder reference in translated text
	rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protect replaces interpolation tokens with numbered placeholders [PH0],
// [PH1], … in the order they appear in text. It returns the modified text
// and the slice of captured originals so Restore can put them back.
func Protect(text string) (string, []string) {
	var markers []string
	counter := 0

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", counter)
		markers = append(markers, match)
		counter++
		return id
	}

	// Tags first so tokens inside attributes are captured with their tag.
	text = reHTMLTag.ReplaceAllStringFunc(text, replace)
	text = reCurlyToken.ReplaceAllStringFunc(text, replace)
	text = rePrintfVerb.ReplaceAllStringFunc(text, replace)

	return text, markers
}

// Restore substitutes [PHn] markers in text back with the originals captured
// by Protect. Unrecognised indices leave the placeholder as-is.
func Restore(text string, markers []string) string {
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		idx := 0
		fmt.Sscanf(sub[1], "%d", &idx)
		if idx < 0 || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}

// Missing checks whether all markers created by Protect are still present
// in the translated text. It returns the list of missing indices. A model
// that dropped a marker has also dropped the token behind it.
func Missing(text string, markers []string) []int {
	var missing []int
	for i := range markers {
		if !strings.Contains(text, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}
