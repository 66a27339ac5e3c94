package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/srcup/srcup/internal/surface"
	"github.com/srcup/srcup/internal/update"
)

type runOptions struct {
	Tag       string
	AutoClose bool
	Chain     bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run -- COMMAND [ARG...]",
		Short: "Run an arbitrary command in a modal surface",
		Long: `Run executes a shell command in the modal surface, streaming its
combined output into the viewport. On success the surface waits for an
acknowledgment key (or closes immediately with --autoclose); on failure
it stays open until dismissed with q.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.TrimSpace(strings.Join(args, " "))
			if command == "" {
				return errors.New("empty command")
			}

			_, cache, wf, err := newComponents()
			if err != nil {
				return err
			}

			result, err := surface.Run(surface.RunOptions{
				Command:       command,
				Tag:           opts.Tag,
				AutoClose:     opts.AutoClose,
				ChainToUpdate: opts.Chain,
				Tags:          cache,
			})
			if err != nil {
				return err
			}
			if result.ChainAccepted {
				if err := wf.Update(update.Options{}); err != nil {
					return err
				}
			}
			if result.ExitCode == 0 && surface.Headless() {
				os.Exit(ExitOK)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Tag, "tag", "running", "Viewport classification tag")
	cmd.Flags().BoolVar(&opts.AutoClose, "autoclose", false, "Close the surface immediately on success")
	cmd.Flags().BoolVar(&opts.Chain, "chain", false, "Offer to run the update workflow after a successful close")

	return cmd
}
