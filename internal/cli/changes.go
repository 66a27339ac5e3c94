package cli

import (
	"github.com/spf13/cobra"
	"github.com/srcup/srcup/internal/update"
)

func newChangesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "changes",
		Short: "Show pending upstream commits",
		Long: `Changes fetches origin and lists commits on the tracked branch that
the checkout does not have yet. After the listing closes it offers to
run the update workflow.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, wf, err := newComponents()
			if err != nil {
				return err
			}
			return wf.ShowChanges(update.Options{})
		},
	}
}
