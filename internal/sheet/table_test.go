package sheet

import "testing"

func sampleTable() *Table {
	return &Table{
		Columns: []string{"English", "French", "Record ID"},
		Rows: []Row{
			{"English": "Hello", "French": "", "Record ID": "1"},
			{"English": "Goodbye", "French": "Au revoir", "Record ID": "2"},
		},
	}
}

func TestTable_Clone_Independent(t *testing.T) {
	orig := sampleTable()
	clone := orig.Clone()

	clone.SetCell(0, "French", "Bonjour")
	clone.Columns[0] = "Anglais"

	if orig.Cell(0, "French") != "" {
		t.Errorf("clone write leaked into original: %q", orig.Cell(0, "French"))
	}
	if orig.Columns[0] != "English" {
		t.Errorf("clone header change leaked into original: %q", orig.Columns[0])
	}
	if clone.Cell(0, "French") != "Bonjour" {
		t.Errorf("clone write lost: %q", clone.Cell(0, "French"))
	}
}

func TestTable_HasColumn(t *testing.T) {
	tbl := sampleTable()
	if !tbl.HasColumn("French") {
		t.Error("expected French column")
	}
	if tbl.HasColumn("German") {
		t.Error("did not expect German column")
	}
}

func TestTable_Cell_OutOfRange(t *testing.T) {
	tbl := sampleTable()
	if got := tbl.Cell(-1, "English"); got != "" {
		t.Errorf("expected empty for negative row, got %q", got)
	}
	if got := tbl.Cell(99, "English"); got != "" {
		t.Errorf("expected empty for out-of-range row, got %q", got)
	}
	if got := tbl.Cell(0, "Missing"); got != "" {
		t.Errorf("expected empty for missing column, got %q", got)
	}
}

func TestTable_IsBlank(t *testing.T) {
	tbl := &Table{
		Columns: []string{"English"},
		Rows:    []Row{{"English": "   "}, {"English": "Hello"}},
	}
	if !tbl.IsBlank(0, "English") {
		t.Error("whitespace-only cell should be blank")
	}
	if tbl.IsBlank(1, "English") {
		t.Error("non-empty cell should not be blank")
	}
	if !tbl.IsBlank(0, "French") {
		t.Error("missing column should read blank")
	}
}

func TestTranslatedPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"localizations.xlsx", "localizations_translated.xlsx"},
		{"dir/items.xlsx", "dir/items_translated.xlsx"},
		{"noext", "noext_translated"},
	}
	for _, tt := range tests {
		if got := TranslatedPath(tt.input); got != tt.expected {
			t.Errorf("TranslatedPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
