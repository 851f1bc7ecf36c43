// Package detector identifies the language of a text sample. It backs the
// optional post-translation validation pass.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// detectionLanguages covers the language columns loctran knows how to
// resolve. Restricting the detector to this set keeps model load time and
// memory well below the all-languages build.
var detectionLanguages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.Spanish,
	lingua.Russian,
	lingua.Korean,
	lingua.German,
	lingua.Japanese,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Ukrainian,
	lingua.Chinese,
	lingua.Polish,
	lingua.Dutch,
}

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(detectionLanguages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-cased ISO 639-1 code of the detected
// language, e.g. "fr".
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
