package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/srcup/srcup/internal/surface"
	"github.com/srcup/srcup/internal/update"
)

func newRemoveCmd() *cobra.Command {
	force := false

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete the source checkout",
		Long: `Remove deletes the configured source directory after an interactive
confirmation. Pass --force to skip the prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, wf, err := newComponents()
			if err != nil {
				return err
			}

			confirmed := force
			if !confirmed {
				prompt := fmt.Sprintf("Remove %s? This deletes the checkout and any local changes.", cfg.SourceDir)
				if err := surface.Ask(prompt, func() { confirmed = true }, nil); err != nil {
					return err
				}
			}
			if !confirmed {
				return nil
			}
			return wf.Remove(update.Options{})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
