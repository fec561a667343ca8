package main

import (
	"fmt"
	"strings"

	"github.com/Luismorlan/trackhubs/translator"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	submitUser         string
	submitUserName     string
	submitType         string
	submitAssemblies   []string
	submitSkipHubCheck bool
)

var submitCmd = &cobra.Command{
	Use:   "submit <hub url>",
	Short: "Register or update a hub on behalf of a user",
	Long: `Register or update the hub at the given hub.txt URL, exactly as the API
does, on behalf of the given user.

Example:
  thr submit https://example.org/hub/hub.txt --user 0000-0001 --assemblies hg38`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitUser, "user", "", "id of the submitting user (required)")
	submitCmd.Flags().StringVar(&submitUserName, "user_name", "", "display name of the submitting user, defaults to the id")
	submitCmd.Flags().StringVar(&submitType, "type", "", "data type of the hub, genomics when empty")
	submitCmd.Flags().StringSliceVar(&submitAssemblies, "assemblies", nil, "only register these genomes of the hub")
	submitCmd.Flags().BoolVar(&submitSkipHubCheck, "skip-hubcheck", false, "do not run the hubCheck validator")
	_ = submitCmd.MarkFlagRequired("user")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	name := submitUserName
	if name == "" {
		name = submitUser
	}
	result, err := reg.Translator(reg.HubLocker()).Submit(cmd.Context(), translator.SubmitRequest{
		URL:          args[0],
		DataType:     submitType,
		Assemblies:   submitAssemblies,
		SkipHubCheck: submitSkipHubCheck,
		UserID:       submitUser,
		UserName:     name,
	})
	if err != nil {
		if serr := translator.AsSubmissionError(err); serr != nil && len(serr.Details) > 0 {
			return errors.Errorf("%s\n  %s", serr.Message, strings.Join(serr.Details, "\n  "))
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Message)
	for _, t := range result.Trackdbs {
		fmt.Fprintf(out, "  trackdb %d (%s): %s\n", t.ID, t.Assembly, t.StatusMessage)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	return nil
}
