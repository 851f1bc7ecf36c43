// Package refiner implements the optional second pass of cell translation.
// It takes a draft translation of one cell and polishes it for fluency
// while keeping short UI strings short.
package refiner

import "context"

// Refiner reviews and improves a draft cell translation.
type Refiner interface {
	Refine(ctx context.Context, sourceLang, targetLang, sourceText, draftText string) (string, error)
}
