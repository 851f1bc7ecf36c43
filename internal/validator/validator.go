// Package validator checks that a translated cell is in the expected target language.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/loctran/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language
// detection. Localization cells are often a word or two; shorter texts
// produce unreliable results and are accepted without validation.
const minValidationLength = 20

// Validator checks that a translation result is written in the expected
// target language. The underlying language detector is expensive to build;
// reuse the instance across a batch run.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the lingua-go language detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// IsValid returns true when translatedText appears to be written in
// targetCode.
//
// Short texts and texts whose language cannot be determined pass without
// error. Regional codes are compared on their primary subtag, so "pt-br"
// accepts detected "pt". When the detected language differs the returned
// error names both codes.
func (v *Validator) IsValid(translatedText, targetCode string) (bool, error) {
	if targetCode == "" {
		return true, nil
	}

	text := strings.TrimSpace(translatedText)
	if text == "" {
		return false, fmt.Errorf("translation is empty")
	}

	// Detector is unreliable for very short texts; skip validation.
	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		// Ambiguous language, cannot validate.
		return true, nil
	}

	want := primarySubtag(targetCode)
	if !strings.EqualFold(detected, want) {
		return false, fmt.Errorf("expected %s but detected %s", targetCode, detected)
	}

	return true, nil
}

func primarySubtag(code string) string {
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		return code[:idx]
	}
	return code
}
