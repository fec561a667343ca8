package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Luismorlan/trackhubs/enrichment"
	"github.com/Luismorlan/trackhubs/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var enrichYes bool

var enrichCmd = &cobra.Command{
	Use:   "enrich all|<trackdb id>",
	Short: "Re-check the data files of stored trackdbs and refresh their search documents",
	Long: `Re-check the data files of stored trackdbs, store the new status and
re-project them to the search index.

Example:
  thr enrich all
  thr enrich 42`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().BoolVarP(&enrichYes, "yes", "y", false, "never prompt, go on after a failing trackdb")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if args[0] == "all" {
		onFailure := enrichment.ContinueOnFailure
		if !enrichYes && isInteractive(os.Stdin) {
			onFailure = promptOnFailure(cmd.InOrStdin(), out)
		}
		report, err := reg.Enricher.EnrichAll(cmd.Context(), onFailure)
		if err != nil {
			return err
		}
		return printEnrichReport(out, report)
	}

	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return errors.Errorf("trackdb id must be a number or 'all', got %q", args[0])
	}
	if _, err := reg.Enricher.EnrichOne(cmd.Context(), uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(out, "No TrackDB with ID '%d'!\n", id)
			return nil
		}
		return err
	}
	fmt.Fprintf(out, "TrackDB with ID '%d' updated successfully!\n", id)
	return nil
}

func printEnrichReport(out io.Writer, report *enrichment.Report) error {
	if len(report.Failed) == 0 {
		fmt.Fprintln(out, "All TrackDB are updated successfully!")
		return nil
	}
	for _, f := range report.Failed {
		fmt.Fprintf(out, "TrackDB with ID '%d' failed: %v\n", f.TrackdbID, f.Err)
	}
	return errors.Errorf("%d of %d trackdbs failed", len(report.Failed), report.Processed)
}

// promptOnFailure asks the operator whether to go on after each failure.
// Anything but y or yes stops the batch.
func promptOnFailure(in io.Reader, out io.Writer) enrichment.FailureHandler {
	reader := bufio.NewReader(in)
	return func(trackdbID uint, err error) bool {
		fmt.Fprintf(out, "TrackDB with ID '%d' failed: %v\ncontinue anyway? [y/N] ", trackdbID, err)
		answer, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func isInteractive(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
