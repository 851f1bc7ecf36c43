// Package langcode maps human-readable language column names to short
// language codes suitable for translation prompts and APIs.
package langcode

import "strings"

type entry struct {
	name string // Column display name, e.g. "Brazilian Portuguese"
	code string // Short code passed to translation services, e.g. "pt-br"
}

var languages = []entry{
	{"English", "en"},
	{"French", "fr"},
	{"Spanish", "es"},
	{"Russian", "ru"},
	{"Korean", "ko"},
	{"German", "de"},
	{"Japanese", "ja"},
	{"Italian", "it"},
	{"Brazilian Portuguese", "pt-br"},
	{"Portuguese", "pt"},
	{"Ukrainian", "uk"},
	{"Chinese", "zh"},
	{"Polish", "pl"},
	{"Dutch", "nl"},
}

var byName map[string]string

func init() {
	byName = make(map[string]string, len(languages))
	for _, e := range languages {
		byName[strings.ToLower(e.name)] = e.code
	}
}

// Resolve converts a language display name to its short code.
// Unknown names pass through unchanged so an unrecognized column still
// produces a usable (if non-standard) code rather than an error.
func Resolve(name string) string {
	if code, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return name
}

// Known reports whether name has an entry in the static table.
func Known(name string) bool {
	_, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
