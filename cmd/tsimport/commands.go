package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tsimport/internal/ingest"
	"github.com/JonMunkholm/tsimport/internal/logging"
	"github.com/JonMunkholm/tsimport/internal/timestamp"
)

var errBadDelimiter = errors.New("delimiter must be a single character")

type rootOptions struct {
	dayOrder string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "tsimport",
		Short: "Detect column types and parse timestamps in delimited files",
		Long: `tsimport classifies each column of a CSV-like file as a string, number,
hex value, epoch timestamp or date-time string, and converts values to seconds
since the Unix epoch.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.dayOrder, "day-order", "auto", "resolution of dates like 05/06/2024: auto, day or month")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(newDetectCmd(opts), newParseCmd(opts))
	return root
}

func (o *rootOptions) resolver() (timestamp.DayOrderResolver, error) {
	r, ok := timestamp.DayOrderFromString(o.dayOrder)
	if !ok {
		return nil, fmt.Errorf("unknown day order %q", o.dayOrder)
	}
	return r, nil
}

type detectOptions struct {
	delimiter  string
	sampleRows int
	timeColumn string
	timeFormat string
}

func newDetectCmd(root *rootOptions) *cobra.Command {
	opts := &detectOptions{}

	cmd := &cobra.Command{
		Use:     "detect FILE",
		Short:   "Print the detected type of every column in a file",
		Example: `tsimport detect run.csv --time-column stamp --time-format "dd.MM.yyyy hh:mm:ss"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, root, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", "", `field separator; guessed when empty, "tab" for tabs`)
	cmd.Flags().IntVar(&opts.sampleRows, "sample-rows", ingest.DefaultSampleRows, "leading rows searched for each column's sample")
	cmd.Flags().StringVar(&opts.timeColumn, "time-column", "", "column used as the time axis")
	cmd.Flags().StringVar(&opts.timeFormat, "time-format", "", "Qt-style format forced on the time column")
	return cmd
}

func runDetect(cmd *cobra.Command, root *rootOptions, opts *detectOptions, path string) error {
	dayOrder, err := root.resolver()
	if err != nil {
		return err
	}
	delim, err := parseDelimiter(opts.delimiter)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var size int64
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}

	table, err := ingest.Read(cmd.Context(), f, size, ingest.Options{
		Delimiter:  delim,
		SampleRows: opts.sampleRows,
		TimeColumn: opts.timeColumn,
		TimeFormat: opts.timeFormat,
		DayOrder:   dayOrder,
		Logger:     logging.New(cmd.ErrOrStderr(), root.logLevel, "text"),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	printTable(cmd.OutOrStdout(), table)
	return nil
}

func printTable(w io.Writer, t *ingest.Table) {
	fmt.Fprintf(w, "rows: %d  delimiter: %q\n", t.Rows, string(t.Delimiter))
	for i := range t.Columns {
		c := &t.Columns[i]
		marker := " "
		if i == t.TimeIndex {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d\t%s\t%s\tmissing=%d\tsample=%q\n", marker, c.Position, c.Name, c.Info, c.Missing, c.Sample)
	}
	if t.TimeIndex < 0 {
		fmt.Fprintln(w, "no time column; rows are indexed by position")
	}
	if t.Unsorted {
		fmt.Fprintln(w, "warning: time column is not sorted")
	}
}

func newParseCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse VALUE",
		Short: "Convert one value to seconds since the Unix epoch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dayOrder, err := root.resolver()
			if err != nil {
				return err
			}

			var v float64
			var ok bool
			if format != "" {
				v, ok = timestamp.FormatParseTimestamp(args[0], format)
			} else {
				v, ok = timestamp.Detector{DayOrder: dayOrder}.AutoParseTimestamp(args[0])
			}

			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "absent")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'f', -1, 64))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Qt-style format; the value is auto-detected when empty")
	return cmd
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, errBadDelimiter
	}
	return r, nil
}
