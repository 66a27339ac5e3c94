package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/srcup/srcup/internal/surface"
	"github.com/srcup/srcup/internal/update"
)

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update, build, and install the source checkout",
		Long: `Update runs the full pipeline in a modal surface: clone the checkout
if it does not exist yet, otherwise fetch, check out the configured
branch and pull, then build and install.

The install stage runs under sudo and may prompt for credentials inside
the modal. A stage failure aborts the remaining stages and keeps the
surface open for inspection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, wf, err := newComponents()
			if err != nil {
				return err
			}
			// Flag overrides are already merged into the config; the
			// workflow resolves everything from there.
			if err := wf.Update(update.Options{}); err != nil {
				return err
			}
			if wf.Phase() == update.PhaseCompleted && surface.Headless() {
				os.Exit(ExitOK)
			}
			return nil
		},
	}
}
