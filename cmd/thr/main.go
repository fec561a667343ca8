package main

import (
	"fmt"
	"os"

	"github.com/Luismorlan/trackhubs/app_config"
	"github.com/Luismorlan/trackhubs/registry"
	"github.com/Luismorlan/trackhubs/utils/dotenv"
	. "github.com/Luismorlan/trackhubs/utils/log"
	"github.com/spf13/cobra"
)

const serviceName = "thr_cli"

var appConfigPath string

var rootCmd = &cobra.Command{
	Use:   "thr",
	Short: "Operator commands of the track hub registry",
	Long: `thr runs the registry batch jobs against the configured database and
search index: trackdb enrichment, the assembly reference import and
command line hub submission.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&appConfigPath, "app_config_path", "", "path to the registry app config, defaults apply when empty")

	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(importAssembliesCmd)
	rootCmd.AddCommand(submitCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	if err := dotenv.LoadDotEnvs(); err != nil {
		return err
	}
	InitLogger(serviceName)
	return nil
}

// openRegistry connects with the config given on the command line.
func openRegistry() (*registry.Registry, error) {
	config, err := app_config.ParseRegistryAppConfig(appConfigPath)
	if err != nil {
		return nil, err
	}
	return registry.New(config)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
