// Package orchestrator sequences a batch translation run over a table:
// which rows need translation, one Translate call per eligible cell, and
// merging results into a copy of the table with per-row failure tolerance.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valpere/loctran/internal/langcode"
	"github.com/valpere/loctran/internal/placeholder"
	"github.com/valpere/loctran/internal/postprocess"
	"github.com/valpere/loctran/internal/refiner"
	"github.com/valpere/loctran/internal/sheet"
	"github.com/valpere/loctran/internal/store"
	"github.com/valpere/loctran/internal/translator"
	"github.com/valpere/loctran/internal/validator"
)

// metadataColumns are spreadsheet columns that never hold translations and
// are therefore excluded from target discovery.
var metadataColumns = []string{
	"IncludeInBoth",
	"In translation",
	"Loc batch #",
	"DevEnglish",
	"Text Reviewed",
	"Text Changes",
	"Record ID",
}

// Config controls one batch run.
type Config struct {
	Timeout        time.Duration // per-cell translation timeout
	Workers        int           // concurrent cell translations; <= 1 runs sequentially
	FuzzyThreshold float64       // similarity threshold for fuzzy cache hits; <= 0 disables
}

// ColumnReport summarises one TranslateColumn pass.
type ColumnReport struct {
	TargetColumn string
	Translated   int
	Cached       int
	Skipped      int
	Failed       int
}

// Orchestrator drives batch translation of a table through one
// translation service.
type Orchestrator struct {
	service translator.TranslationService
	svcCfg  translator.ServiceConfig
	config  Config

	db           *store.Store
	checkpointID string
	resumed      map[string]string

	val *validator.Validator
	ref refiner.Refiner
}

func New(service translator.TranslationService, svcCfg translator.ServiceConfig, config Config) *Orchestrator {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Orchestrator{
		service: service,
		svcCfg:  svcCfg,
		config:  config,
	}
}

// SetStore attaches a translation memory / checkpoint store. resumedCells
// may hold cells completed by an earlier interrupted run, keyed by
// store.CellKey.
func (o *Orchestrator) SetStore(db *store.Store, checkpointID string, resumedCells map[string]string) {
	o.db = db
	o.checkpointID = checkpointID
	o.resumed = resumedCells
}

// SetValidator enables post-translation language validation.
func (o *Orchestrator) SetValidator(v *validator.Validator) {
	o.val = v
}

// SetRefiner enables the second polishing pass on every translated cell.
func (o *Orchestrator) SetRefiner(r refiner.Refiner) {
	o.ref = r
}

// Targets returns the language columns of a table: every column except the
// source column and the known metadata columns.
func Targets(columns []string, sourceCol string) []string {
	var out []string
	for _, col := range columns {
		if col == sourceCol || isMetadataColumn(col) {
			continue
		}
		out = append(out, col)
	}
	return out
}

func isMetadataColumn(name string) bool {
	for _, m := range metadataColumns {
		if m == name {
			return true
		}
	}
	return false
}

type cellResult struct {
	row    int
	text   string
	cached bool
	err    error
}

// TranslateColumn translates every eligible row of sourceCol into
// targetCol and returns a copy of the table with the results merged. The
// input table is never mutated. Rows with a blank source cell are skipped;
// rows whose target cell already holds text are skipped unless retranslate
// is set. A failed row is logged and left unchanged; it never aborts the
// batch.
func (o *Orchestrator) TranslateColumn(ctx context.Context, tbl *sheet.Table, sourceCol, targetCol string, retranslate bool) (*sheet.Table, *ColumnReport, error) {
	if !tbl.HasColumn(sourceCol) {
		return tbl, nil, fmt.Errorf("source column %q not found", sourceCol)
	}
	if !tbl.HasColumn(targetCol) {
		return tbl, nil, fmt.Errorf("target column %q not found", targetCol)
	}
	if targetCol == sourceCol {
		return tbl, nil, fmt.Errorf("source column %q cannot be a translation target", sourceCol)
	}

	out := tbl.Clone()
	report := &ColumnReport{TargetColumn: targetCol}

	sourceCode := langcode.Resolve(sourceCol)
	targetCode := langcode.Resolve(targetCol)

	// Eligibility is decided against the input table up front, so parallel
	// workers never observe each other's partial results.
	var eligible []int
	for row := range tbl.Rows {
		if tbl.IsBlank(row, sourceCol) {
			continue
		}
		if !retranslate && !tbl.IsBlank(row, targetCol) {
			report.Skipped++
			continue
		}
		eligible = append(eligible, row)
	}

	fmt.Fprintf(os.Stderr, "Translating %d entries from %s (%s) to %s (%s)\n",
		len(eligible), sourceCol, sourceCode, targetCol, targetCode)

	var glossary map[string]string
	if o.db != nil {
		var err error
		glossary, err = o.db.GetGlossaryTerms(ctx, sourceCode, targetCode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load glossary: %v\n", err)
		}
	}

	jobs := make(chan int)
	results := make(chan cellResult, o.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < o.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range jobs {
				text, cached, err := o.translateCell(ctx, tbl, row, sourceCol, targetCol, sourceCode, targetCode, glossary)
				results <- cellResult{row: row, text: text, cached: cached, err: err}
			}
		}()
	}

	go func() {
		for _, row := range eligible {
			jobs <- row
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Writes to the output copy happen only here, one result at a time.
	for res := range results {
		if res.err != nil {
			fmt.Fprintf(os.Stderr, "Row %d: translation failed: %v\n", res.row+1, res.err)
			report.Failed++
			continue
		}
		if res.text == "" {
			fmt.Fprintf(os.Stderr, "Row %d: empty translation, cell left unchanged\n", res.row+1)
			report.Failed++
			continue
		}

		out.SetCell(res.row, targetCol, res.text)
		if res.cached {
			report.Cached++
		} else {
			report.Translated++
		}

		if o.db != nil && o.checkpointID != "" {
			if err := o.db.SaveRunCell(ctx, o.checkpointID, res.row, targetCol, res.text); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint row %d: %v\n", res.row+1, err)
			}
		}
	}

	return out, report, nil
}

// translateCell produces the translation for one row. It reads only the
// input table and shared immutable state, so it is safe to call from
// multiple workers.
func (o *Orchestrator) translateCell(ctx context.Context, tbl *sheet.Table, row int, sourceCol, targetCol, sourceCode, targetCode string, glossary map[string]string) (string, bool, error) {
	source := strings.TrimSpace(tbl.Cell(row, sourceCol))

	// Cells finished by an interrupted earlier run.
	if o.resumed != nil {
		if text, ok := o.resumed[store.CellKey(row, targetCol)]; ok {
			return text, true, nil
		}
	}

	// Glossary terms are authoritative: an exact match bypasses the model.
	if text, ok := glossary[source]; ok {
		return text, true, nil
	}

	if o.db != nil {
		if cached, found, err := o.db.GetCachedTranslation(ctx, source, sourceCode, targetCode); err == nil && found {
			return cached, true, nil
		}
		if o.config.FuzzyThreshold > 0 {
			if cached, found, err := o.db.FuzzyGetCachedTranslation(ctx, source, sourceCode, targetCode, o.config.FuzzyThreshold); err == nil && found {
				return cached, true, nil
			}
		}
	}

	fmt.Fprintf(os.Stderr, "Translating row %d: %s...\n", row+1, truncate(source, 30))

	protected, markers := placeholder.Protect(source)

	cellCtx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	result, err := o.service.Translate(cellCtx, o.svcCfg, translator.TranslateRequest{
		Text:       protected,
		SourceLang: sourceCode,
		TargetLang: targetCode,
	})
	if err != nil {
		return "", false, err
	}

	text := postprocess.Clean(result.TranslatedText)
	if text == "" {
		return "", false, nil
	}

	if missing := placeholder.Missing(text, markers); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: row %d dropped %d placeholder(s)\n", row+1, len(missing))
	}

	if o.ref != nil {
		refined, refErr := o.ref.Refine(ctx, sourceCode, targetCode, protected, text)
		if refErr != nil {
			fmt.Fprintf(os.Stderr, "Refiner failed row %d: %v, using draft\n", row+1, refErr)
		} else {
			text = refined
		}
	}

	text = placeholder.Restore(text, markers)

	if o.val != nil {
		if ok, valErr := o.val.IsValid(text, targetCode); !ok {
			return "", false, fmt.Errorf("validation failed: %v", valErr)
		}
	}

	if o.db != nil {
		if err := o.db.SaveToMemory(ctx, source, sourceCode, targetCode, text, o.service.Name()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache row %d: %v\n", row+1, err)
		}
	}

	return text, false, nil
}

// TranslateAllLanguages runs TranslateColumn once per discovered language
// column, folding each result into the next pass. Translations written to
// one column are never read by another column's skip checks.
func (o *Orchestrator) TranslateAllLanguages(ctx context.Context, tbl *sheet.Table, sourceCol string, retranslate bool) (*sheet.Table, error) {
	if !tbl.HasColumn(sourceCol) {
		return tbl, fmt.Errorf("source column %q not found", sourceCol)
	}

	targets := Targets(tbl.Columns, sourceCol)
	fmt.Fprintf(os.Stderr, "Found %d language columns: %s\n", len(targets), strings.Join(targets, ", "))

	current := tbl
	for _, target := range targets {
		next, report, err := o.TranslateColumn(ctx, current, sourceCol, target, retranslate)
		if err != nil {
			return current, err
		}
		fmt.Fprintf(os.Stderr, "%s: %d translated, %d cached, %d skipped, %d failed\n",
			target, report.Translated, report.Cached, report.Skipped, report.Failed)
		current = next
	}

	return current, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
