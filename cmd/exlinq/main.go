// Package main provides the CLI entry point for exlinq.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/exlinq-go/pkg/exlinq"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	logLevel  string
	logFormat string
	culture   string
	logger    *logrus.Logger
}

func (o *globalOptions) engineOptions() exlinq.Options {
	opts := exlinq.DefaultOptions()
	opts.Culture = o.culture
	opts.Logger = o.logger
	return opts
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "exlinq",
		Short: "Map spreadsheet and CSV data through declared sheet models",
		Long: `exlinq reads xlsx and CSV files through a sheet/column mapping,
validates them and writes normalized workbooks.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := setupLogging(opts.logLevel, opts.logFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", envOr("EXLINQ_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", envOr("EXLINQ_LOG_FORMAT", "text"), "Log format: text, json")
	flags.StringVar(&opts.culture, "culture", envOr("EXLINQ_CULTURE", ""), "Culture for numeric and date text, e.g. de-DE")

	rootCmd.AddCommand(newInspectCmd(opts), newConvertCmd(opts))
	return rootCmd
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// setupLogging creates a logger writing to w at the given level and format.
func setupLogging(level, format string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format: %s (must be text or json)", format)
	}
	return logger, nil
}
