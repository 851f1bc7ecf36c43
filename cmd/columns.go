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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/loctran/internal/langcode"
	"github.com/valpere/loctran/internal/orchestrator"
	"github.com/valpere/loctran/internal/sheet"
)

var (
	columnsFile   string
	columnsSheet  string
	columnsSource string
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "List the language columns of a spreadsheet",
	Long: `Show which columns of a sheet would be translated by
"loctran translate -t all". Metadata columns and the source column are
listed separately, with the language code each target resolves to.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := sheet.Load(columnsFile, columnsSheet)
		if err != nil {
			return fmt.Errorf("failed to load spreadsheet: %w", err)
		}

		targets := orchestrator.Targets(tbl.Columns, columnsSource)
		isTarget := make(map[string]bool, len(targets))
		for _, t := range targets {
			isTarget[t] = true
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "COLUMN\tROLE\tLANG CODE")
		for _, col := range tbl.Columns {
			switch {
			case col == columnsSource:
				fmt.Fprintf(w, "%s\tsource\t%s\n", col, langcode.Resolve(col))
			case isTarget[col]:
				code := langcode.Resolve(col)
				if !langcode.Known(col) {
					code += " (unmapped, used as-is)"
				}
				fmt.Fprintf(w, "%s\ttarget\t%s\n", col, code)
			default:
				fmt.Fprintf(w, "%s\tmetadata\t-\n", col)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)

	columnsCmd.Flags().StringVarP(&columnsFile, "file", "f", "localizations.xlsx", "Input spreadsheet (xlsx)")
	columnsCmd.Flags().StringVar(&columnsSheet, "sheet", "Items", "Worksheet name")
	columnsCmd.Flags().StringVarP(&columnsSource, "source", "s", "English", "Source language column")
}
