package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var skipFetch bool

var importAssembliesCmd = &cobra.Command{
	Use:   "import-assemblies",
	Short: "Fetch the assembly feed and replace the reference table with it",
	Args:  cobra.NoArgs,
	RunE:  runImportAssemblies,
}

func init() {
	importAssembliesCmd.Flags().BoolVar(&skipFetch, "skip-fetch", false, "load the last stored snapshot without fetching a new one")
}

func runImportAssemblies(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	importer, err := reg.Importer()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !skipFetch {
		fetched, err := importer.Fetch(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Fetched %d assemblies\n", fetched)
	}
	loaded, err := importer.Load(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %d assemblies into the reference table\n", loaded)
	return nil
}
