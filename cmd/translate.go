/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/loctran/internal/orchestrator"
	"github.com/valpere/loctran/internal/refiner"
	"github.com/valpere/loctran/internal/sheet"
	"github.com/valpere/loctran/internal/store"
	"github.com/valpere/loctran/internal/translator"
	"github.com/valpere/loctran/internal/validator"
)

var (
	inputFile   string
	sheetName   string
	sourceLang  string
	targetLang  string
	retranslate bool
	inPlace     bool

	serviceName string
	modelName   string
	credentials string
	projectID   string

	ollamaURL     string
	openrouterKey string

	workers     int
	cellTimeout time.Duration

	dbPath   string
	noCache  bool
	resumeID string
	fuzzy    float64

	useValidate bool

	useRefine    bool
	refinerModel string
	refinerURL   string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Batch-translate a localization spreadsheet",
	Long: `Translate the cells of a source-language column into one or more
target-language columns of an xlsx spreadsheet.

Available services:
  - ollama      Ollama LLM (self-hosted, default)
  - openrouter  OpenRouter LLM (requires API key)
  - google      Google Translate (requires credentials)

The target is a column name, or "all" to translate every language
column of the sheet. Cells that already hold a translation are kept
unless --retranslate is given.

Examples:
  loctran translate -t French
  loctran translate -t all -r
  loctran translate -f strings.xlsx --sheet UI -t German --in-place`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		tbl, err := sheet.Load(inputFile, sheetName)
		if err != nil {
			return fmt.Errorf("failed to load spreadsheet: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Loaded %q sheet %q: %d columns, %d rows\n",
			inputFile, sheetName, len(tbl.Columns), len(tbl.Rows))

		var db *store.Store
		var checkpointID string
		var resumedCells map[string]string
		if !noCache && dbPath != "" {
			db, err = store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if resumeID != "" {
				cp, err := db.GetRunCheckpoint(ctx, resumeID)
				if err != nil {
					return fmt.Errorf("failed to resume run %s: %w", resumeID, err)
				}
				if cp.InputFile != inputFile || cp.SheetName != sheetName {
					return fmt.Errorf("run %s was started on %q sheet %q, not %q sheet %q",
						resumeID, cp.InputFile, cp.SheetName, inputFile, sheetName)
				}
				checkpointID = cp.ID
				resumedCells, err = db.GetRunCells(ctx, checkpointID)
				if err != nil {
					return fmt.Errorf("failed to load completed cells: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Resuming run %s: %d cells already done\n",
					checkpointID, len(resumedCells))
			} else {
				checkpointID, err = db.CreateRunCheckpoint(ctx, inputFile, sheetName, sourceLang, targetLang)
				if err != nil {
					return fmt.Errorf("failed to create run checkpoint: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Run checkpoint: %s\n", checkpointID)
			}
		}

		svc, err := buildService(serviceName, resolveOllamaURL(), resolveOpenRouterKey(), modelName)
		if err != nil {
			return err
		}

		cfg := translator.ServiceConfig{
			Credentials: resolveCredentials(),
			ProjectID:   resolveProjectID(),
			Model:       modelName,
		}

		orch := orchestrator.New(svc, cfg, orchestrator.Config{
			Timeout:        cellTimeout,
			Workers:        workers,
			FuzzyThreshold: fuzzy,
		})
		if db != nil {
			orch.SetStore(db, checkpointID, resumedCells)
		}
		if useValidate {
			orch.SetValidator(validator.New())
		}
		if useRefine {
			orch.SetRefiner(refiner.NewOllamaRefiner(refinerModel, refinerURL))
		}

		var out *sheet.Table
		if isAllTargets(targetLang) {
			out, err = orch.TranslateAllLanguages(ctx, tbl, sourceLang, retranslate)
		} else {
			out, _, err = orch.TranslateColumn(ctx, tbl, sourceLang, targetLang, retranslate)
		}
		if err != nil {
			return err
		}

		outPath := sheet.TranslatedPath(inputFile)
		if inPlace {
			outPath = inputFile
			err = sheet.SaveInPlace(out, inputFile, sheetName)
		} else {
			err = sheet.Save(out, outPath, sheetName)
		}
		if err != nil {
			return fmt.Errorf("failed to save spreadsheet: %w", err)
		}

		if db != nil {
			if err := db.CompleteRunCheckpoint(ctx, checkpointID); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to complete checkpoint: %v\n", err)
			}
		}

		fmt.Printf("Saved translated spreadsheet to %s\n", outPath)
		return nil
	},
}

// isAllTargets reports whether the target flag selects every language
// column. The selector is case-insensitive; "All" and "ALL" work too.
func isAllTargets(target string) bool {
	return strings.EqualFold(target, "all")
}

// resolveOpenRouterKey prefers the flag, then config/environment.
func resolveOpenRouterKey() string {
	if openrouterKey != "" {
		return openrouterKey
	}
	return viper.GetString("openrouter.api_key")
}

func resolveOllamaURL() string {
	if ollamaURL != "" {
		return ollamaURL
	}
	return viper.GetString("ollama.url")
}

func resolveCredentials() string {
	if credentials != "" {
		return credentials
	}
	return viper.GetString("google.credentials")
}

func resolveProjectID() string {
	if projectID != "" {
		return projectID
	}
	return viper.GetString("google.project_id")
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "file", "f", "localizations.xlsx", "Input spreadsheet (xlsx)")
	translateCmd.Flags().StringVar(&sheetName, "sheet", "Items", "Worksheet name")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "English", "Source language column")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", `Target language column, or "all" (required)`)
	translateCmd.Flags().BoolVarP(&retranslate, "retranslate", "r", false, "Overwrite target cells that already hold text")
	translateCmd.Flags().BoolVar(&inPlace, "in-place", false, "Write results back into the input file")

	translateCmd.Flags().StringVar(&serviceName, "service", "ollama", "Translation service (google, ollama, openrouter)")
	translateCmd.Flags().StringVarP(&modelName, "model", "m", translator.DefaultOllamaModel, "Model name for LLM services")
	translateCmd.Flags().StringVarP(&credentials, "credentials", "c", "", "Path to Google Cloud credentials")
	translateCmd.Flags().StringVarP(&projectID, "project", "p", "", "Google Cloud Project ID")
	translateCmd.Flags().StringVar(&ollamaURL, "ollama-url", "", "Ollama base URL (default http://localhost:11434)")
	translateCmd.Flags().StringVar(&openrouterKey, "openrouter-key", "", "OpenRouter API key")

	translateCmd.Flags().IntVar(&workers, "workers", 1, "Concurrent cell translations")
	translateCmd.Flags().DurationVar(&cellTimeout, "timeout", 60*time.Second, "Per-cell translation timeout")

	translateCmd.Flags().StringVar(&dbPath, "db", "./data/loctran.db", "Database path for translation memory and checkpoints")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable translation memory and checkpoints")
	translateCmd.Flags().StringVar(&resumeID, "resume", "", "Resume an interrupted run by checkpoint ID")
	translateCmd.Flags().Float64Var(&fuzzy, "fuzzy", 0, "Fuzzy cache similarity threshold, 0 to disable (e.g. 0.85)")

	translateCmd.Flags().BoolVar(&useValidate, "validate", false, "Verify the detected language of each translation")

	translateCmd.Flags().BoolVar(&useRefine, "refine", false, "Enable a second polishing pass on every translation")
	translateCmd.Flags().StringVar(&refinerModel, "refiner-model", "llama3.2", "Refiner model name")
	translateCmd.Flags().StringVar(&refinerURL, "refiner-url", "http://localhost:11434", "Refiner Ollama URL")

	viper.BindPFlag("openrouter.api_key", translateCmd.Flags().Lookup("openrouter-key"))
	viper.BindPFlag("ollama.url", translateCmd.Flags().Lookup("ollama-url"))
	viper.BindPFlag("google.credentials", translateCmd.Flags().Lookup("credentials"))
	viper.BindPFlag("google.project_id", translateCmd.Flags().Lookup("project"))

	translateCmd.MarkFlagRequired("target")
}
