package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("expected non-nil store")
	}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_GetCachedTranslation_Miss(t *testing.T) {
	s := newTestStore(t)

	text, found, err := s.GetCachedTranslation(context.Background(), "Hello", "en", "uk")
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if found {
		t.Error("expected not found for uncached translation")
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestStore_GetCachedTranslation_Hit(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveToMemory(context.Background(), "Hello", "en", "uk", "Привіт", "ollama")
	if err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	text, found, err := s.GetCachedTranslation(context.Background(), "Hello", "en", "uk")
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if !found {
		t.Error("expected to find cached translation")
	}
	if text != "Привіт" {
		t.Errorf("expected 'Привіт', got %q", text)
	}
}

func TestStore_GetCachedTranslation_NormalizedKey(t *testing.T) {
	s := newTestStore(t)

	// Saved with surrounding whitespace, looked up trimmed.
	if err := s.SaveToMemory(context.Background(), "  Hello  ", "en", "fr", "Bonjour", "ollama"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	text, found, err := s.GetCachedTranslation(context.Background(), "Hello", "en", "fr")
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if !found || text != "Bonjour" {
		t.Errorf("expected normalized hit, got found=%v text=%q", found, text)
	}
}

func TestStore_GetCachedTranslation_Invalidated(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveToMemory(context.Background(), "Hello", "en", "uk", "Привіт", "ollama")
	if err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	entries, err := s.ListMemory(context.Background())
	if err != nil {
		t.Fatalf("ListMemory failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one entry")
	}

	if err := s.InvalidateMemory(context.Background(), entries[0].ID); err != nil {
		t.Fatalf("InvalidateMemory failed: %v", err)
	}

	_, found, err := s.GetCachedTranslation(context.Background(), "Hello", "en", "uk")
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if found {
		t.Error("expected not found for invalidated translation")
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveToMemory(ctx, "Hello", "en", "fr", "Bonjour", "ollama"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}
	if err := s.SaveToMemory(ctx, "Goodbye", "en", "fr", "Au revoir", "ollama"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Errorf("expected 2 entries, got %d", stats.TotalEntries)
	}
	if stats.ActiveEntries != 2 {
		t.Errorf("expected 2 active entries, got %d", stats.ActiveEntries)
	}
}

func TestStore_ClearMemory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveToMemory(ctx, "Hello", "en", "fr", "Bonjour", "ollama"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	n, err := s.ClearMemory(ctx)
	if err != nil {
		t.Fatalf("ClearMemory failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 cleared entry, got %d", n)
	}

	entries, err := s.ListMemory(ctx)
	if err != nil {
		t.Fatalf("ListMemory failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty memory, got %d entries", len(entries))
	}
}

func TestStore_RunCheckpoint(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateRunCheckpoint(ctx, "localizations.xlsx", "Items", "English", "all")
	if err != nil {
		t.Fatalf("CreateRunCheckpoint failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty checkpoint ID")
	}

	cp, err := s.GetRunCheckpoint(ctx, id)
	if err != nil {
		t.Fatalf("GetRunCheckpoint failed: %v", err)
	}
	if cp.SheetName != "Items" || cp.SourceColumn != "English" || cp.TargetSelector != "all" {
		t.Errorf("unexpected checkpoint fields: %+v", cp)
	}
	if cp.Status != "running" {
		t.Errorf("expected status 'running', got %q", cp.Status)
	}

	if err := s.SaveRunCell(ctx, id, 3, "French", "Bonjour"); err != nil {
		t.Fatalf("SaveRunCell failed: %v", err)
	}
	if err := s.SaveRunCell(ctx, id, 4, "German", "Hallo"); err != nil {
		t.Fatalf("SaveRunCell failed: %v", err)
	}

	cells, err := s.GetRunCells(ctx, id)
	if err != nil {
		t.Fatalf("GetRunCells failed: %v", err)
	}
	if got := cells[CellKey(3, "French")]; got != "Bonjour" {
		t.Errorf("expected Bonjour at 3:French, got %q", got)
	}

	if err := s.CompleteRunCheckpoint(ctx, id); err != nil {
		t.Fatalf("CompleteRunCheckpoint failed: %v", err)
	}
	cp, err = s.GetRunCheckpoint(ctx, id)
	if err != nil {
		t.Fatalf("GetRunCheckpoint failed: %v", err)
	}
	if cp.Status != "completed" {
		t.Errorf("expected status 'completed', got %q", cp.Status)
	}
}

func TestStore_GetRunCheckpoint_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetRunCheckpoint(context.Background(), "run_missing"); err == nil {
		t.Error("expected error for unknown checkpoint")
	}
}

func TestStore_Glossary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddGlossaryTerm(ctx, "en", "fr", "Mana Potion", "Potion de mana"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}
	if err := s.AddGlossaryTerm(ctx, "en", "de", "Mana Potion", "Manatrank"); err != nil {
		t.Fatalf("AddGlossaryTerm failed: %v", err)
	}

	terms, err := s.GetGlossaryTerms(ctx, "en", "fr")
	if err != nil {
		t.Fatalf("GetGlossaryTerms failed: %v", err)
	}
	if len(terms) != 1 || terms["Mana Potion"] != "Potion de mana" {
		t.Errorf("unexpected terms: %v", terms)
	}

	all, err := s.ListGlossaryTerms(ctx, "", "")
	if err != nil {
		t.Fatalf("ListGlossaryTerms failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 entries, got %d", len(all))
	}

	filtered, err := s.ListGlossaryTerms(ctx, "en", "de")
	if err != nil {
		t.Fatalf("ListGlossaryTerms failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].TargetTerm != "Manatrank" {
		t.Errorf("unexpected filtered entries: %+v", filtered)
	}

	if err := s.DeleteGlossaryTerm(ctx, filtered[0].ID); err != nil {
		t.Fatalf("DeleteGlossaryTerm failed: %v", err)
	}
	remaining, err := s.ListGlossaryTerms(ctx, "", "")
	if err != nil {
		t.Fatalf("ListGlossaryTerms failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected 1 entry after delete, got %d", len(remaining))
	}
}

func TestStore_FuzzyGetCachedTranslation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveToMemory(ctx, "Collect 10 gems to continue", "en", "fr", "Collectez 10 gemmes pour continuer", "ollama"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	// Near-identical source text should match above a modest threshold.
	text, found, err := s.FuzzyGetCachedTranslation(ctx, "Collect 12 gems to continue", "en", "fr", 0.85)
	if err != nil {
		t.Fatalf("FuzzyGetCachedTranslation failed: %v", err)
	}
	if !found {
		t.Fatal("expected fuzzy match")
	}
	if text != "Collectez 10 gemmes pour continuer" {
		t.Errorf("unexpected fuzzy result: %q", text)
	}

	// Unrelated text should not match.
	_, found, err = s.FuzzyGetCachedTranslation(ctx, "Completely different sentence", "en", "fr", 0.85)
	if err != nil {
		t.Fatalf("FuzzyGetCachedTranslation failed: %v", err)
	}
	if found {
		t.Error("expected no fuzzy match for unrelated text")
	}

	// Threshold <= 0 disables fuzzy lookup.
	_, found, err = s.FuzzyGetCachedTranslation(ctx, "Collect 10 gems to continue", "en", "fr", 0)
	if err != nil {
		t.Fatalf("FuzzyGetCachedTranslation failed: %v", err)
	}
	if found {
		t.Error("expected fuzzy lookup disabled at threshold 0")
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"empty", "", ""},
		{"internal whitespace kept", "a  b", "a  b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeText(tt.input); got != tt.expected {
				t.Errorf("normalizeText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStringSimilarity(t *testing.T) {
	if got := stringSimilarity("abc", "abc"); got != 1.0 {
		t.Errorf("identical strings: got %f", got)
	}
	if got := stringSimilarity("", ""); got != 1.0 {
		t.Errorf("empty strings: got %f", got)
	}
	if got := stringSimilarity("abcd", "abce"); got != 0.75 {
		t.Errorf("one edit over four runes: got %f", got)
	}
	if got := stringSimilarity("abc", "xyz"); got != 0.0 {
		t.Errorf("disjoint strings: got %f", got)
	}
}

func TestStore_MultipleLanguagePairs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveToMemory(ctx, "Hello", "en", "fr", "Bonjour", "ollama"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}
	if err := s.SaveToMemory(ctx, "Hello", "en", "de", "Hallo", "ollama"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	fr, found, err := s.GetCachedTranslation(ctx, "Hello", "en", "fr")
	if err != nil || !found || fr != "Bonjour" {
		t.Errorf("fr lookup: %q %v %v", fr, found, err)
	}
	de, found, err := s.GetCachedTranslation(ctx, "Hello", "en", "de")
	if err != nil || !found || de != "Hallo" {
		t.Errorf("de lookup: %q %v %v", de, found, err)
	}
}
