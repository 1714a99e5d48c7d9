package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/exlinq-go/pkg/exlinq"
)

type csvFlags struct {
	delimiter string
	encoding  string
}

func (f csvFlags) options() (exlinq.CSVOptions, error) {
	opts := exlinq.DefaultCSVOptions()
	opts.Encoding = f.encoding
	switch d := []rune(f.delimiter); {
	case len(d) == 0:
	case f.delimiter == `\t`:
		opts.Delimiter = '\t'
	case len(d) == 1:
		opts.Delimiter = d[0]
	default:
		return opts, fmt.Errorf("invalid delimiter %q: must be a single character", f.delimiter)
	}
	return opts, nil
}

func (f *csvFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", ",", `CSV field delimiter ("\t" for tab)`)
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "CSV text encoding, e.g. windows-1252 (default: UTF-8)")
}

func isCSV(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return true
	}
	return false
}

func newConvertCmd(global *globalOptions) *cobra.Command {
	var (
		mappingPath string
		csv         csvFlags
	)
	cmd := &cobra.Command{
		Use:   "convert <input> <output.xlsx>",
		Short: "Validate a workbook or CSV file against a mapping and write a normalized workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(global, args[0], args[1], mappingPath, csv)
		},
	}
	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "YAML mapping file")
	_ = cmd.MarkFlagRequired("mapping")
	csv.register(cmd)
	return cmd
}

func runConvert(global *globalOptions, inputPath, outputPath, mappingPath string, csv csvFlags) error {
	log := global.logger.WithField("input", inputPath)

	mf, err := loadMapping(mappingPath)
	if err != nil {
		return err
	}

	var configErr error
	ctx, err := exlinq.NewContext(func(b *exlinq.ModelBuilder) {
		configErr = mf.configure(b)
	}, global.engineOptions())
	if configErr != nil {
		return fmt.Errorf("invalid mapping: %w", configErr)
	}
	if err != nil {
		return err
	}

	// Read input
	if isCSV(inputPath) {
		opts, err := csv.options()
		if err != nil {
			return err
		}
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("%w: %s", exlinq.ErrFileNotFound, inputPath)
		}
		defer f.Close()
		target := mf.Sheets[0].Name
		log.WithField("sheet", target).Debug("reading csv")
		if err := exlinq.ReadNamedCSV[record](ctx, target, f, opts); err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
	} else if err := ctx.ReadFile(inputPath); err != nil {
		return fmt.Errorf("read failed: %w", err)
	}

	for _, sm := range mf.Sheets {
		rows, err := exlinq.NamedRecords[record](ctx, sm.Name)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"sheet": sm.Name, "rows": len(rows)}).Info("sheet read")
	}

	// Write output
	if err := ctx.WriteFile(outputPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.WithField("output", outputPath).Info("workbook written")
	return nil
}
