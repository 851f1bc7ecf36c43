package postprocess

import "testing"

func TestClean_ThinkingMarkers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "already clean",
			input:    "Bonjour",
			expected: "Bonjour",
		},
		{
			name:     "translation prefix",
			input:    "Translation: Bonjour",
			expected: "Bonjour",
		},
		{
			name:     "case insensitive marker",
			input:    "TRANSLATION: Bonjour",
			expected: "Bonjour",
		},
		{
			name:     "think tags",
			input:    "<think>source is a greeting</think>Bonjour",
			expected: "Bonjour",
		},
		{
			name:     "marker chain",
			input:    "<think>Let me translate this</think>The translation is: Bonjour",
			expected: "Bonjour",
		},
		{
			name:     "everything consumed",
			input:    "Let me translate",
			expected: "",
		},
		{
			name:     "translating from prefix",
			input:    "Translating from English to French. Translation: Bonjour",
			expected: "Bonjour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean_MultibyteBeforeMarker(t *testing.T) {
	// Runes whose lowercase form has a different UTF-8 width (İ is 2 bytes,
	// its lowered form 3; Ⱥ is 2 bytes, ⱥ is 3) must not shift the cut.
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "dotted capital I before marker",
			input:    "İ <think>Bonjour",
			expected: "Bonjour",
		},
		{
			name:     "width-changing rune before empty remainder",
			input:    "Ⱥ<think>",
			expected: "",
		},
		{
			name:     "cyrillic preamble",
			input:    "Думаю... Translation: Привіт",
			expected: "Привіт",
		},
		{
			name:     "multibyte text after marker untouched",
			input:    "ИЗДЕЛИЕ Translation: Изделие",
			expected: "Изделие",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean_TrailingExplanation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "note after blank line",
			input:    "Translation: Bonjour\n\nNote: formal register",
			expected: "Bonjour",
		},
		{
			name:     "single newline preserved",
			input:    "Ligne un\nLigne deux",
			expected: "Ligne un\nLigne deux",
		},
		{
			name:     "only first paragraph kept",
			input:    "Bonjour\n\nSecond\n\nThird",
			expected: "Bonjour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean_QuoteWrapping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "double quotes",
			input:    `"Bonjour"`,
			expected: "Bonjour",
		},
		{
			name:     "guillemets",
			input:    "«Bonjour»",
			expected: "Bonjour",
		},
		{
			name:     "mismatched quotes untouched",
			input:    `"Bonjour'`,
			expected: `"Bonjour'`,
		},
		{
			name:     "internal quotes untouched",
			input:    `He said "hi" to me`,
			expected: `He said "hi" to me`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"Bonjour",
		"Ligne un\nLigne deux",
		"Guten Tag, Welt",
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent on %q: %q then %q", in, once, twice)
		}
	}
}
