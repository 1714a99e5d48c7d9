package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/exlinq-go/pkg/exlinq"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/csvgrid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/grid"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/models"
	"github.com/ukaji3/exlinq-go/pkg/exlinq/xlsx"
)

func newInspectCmd(global *globalOptions) *cobra.Command {
	var (
		pretty      bool
		mappingPath string
		csv         csvFlags
	)
	cmd := &cobra.Command{
		Use:   "inspect <input.xlsx|input.csv>",
		Short: "Print the sheet layout of a workbook or CSV file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := inspectFile(global, args[0], mappingPath, csv)
			if err != nil {
				return err
			}

			var data []byte
			if pretty {
				data, err = json.MarshalIndent(summary, "", "  ")
			} else {
				data, err = json.Marshal(summary)
			}
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "YAML mapping file to match sheets against")
	csv.register(cmd)
	return cmd
}

func inspectFile(global *globalOptions, path, mappingPath string, csv csvFlags) (*models.WorkbookSummary, error) {
	var m *models.ExcelModel
	if mappingPath != "" {
		mf, err := loadMapping(mappingPath)
		if err != nil {
			return nil, err
		}
		b := exlinq.NewModelBuilder()
		if err := mf.configure(b); err != nil {
			return nil, fmt.Errorf("invalid mapping: %w", err)
		}
		if m, err = b.Build(); err != nil {
			return nil, fmt.Errorf("invalid mapping: %w", err)
		}
	}

	global.logger.WithField("input", path).Debug("inspecting")
	bookName := filepath.Base(path)
	if !isCSV(path) {
		wb, err := xlsx.Open(path)
		if err != nil {
			return nil, err
		}
		defer wb.Close()
		return exlinq.Inspect(bookName, wb, m)
	}

	opts, err := csv.options()
	if err != nil {
		return nil, err
	}
	enc, err := csvgrid.EncodingByName(opts.Encoding)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", exlinq.ErrFileNotFound, path)
	}
	defer f.Close()

	sheetName := bookName
	if m != nil && m.Sheets().Len() > 0 {
		sheetName = m.Sheets().At(0).Name()
	}
	table, err := csvgrid.Load(f, csvgrid.Options{
		Delimiter: opts.Delimiter,
		Encoding:  enc,
		SheetName: sheetName,
	})
	if err != nil {
		return nil, err
	}
	return exlinq.Inspect(bookName, grid.NewMemoryWorkbook(table.Sheet), m)
}
