package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/srcup/srcup/internal/status"
)

type statusOptions struct {
	Refresh bool
	Watch   bool
	Plain   bool
}

func newStatusCmd() *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the cached pending-change indicator",
		Long: `Status prints the pending-change indicator for the host status line.
Without --refresh it reports the cached state and never touches the
network; this process starts with an empty cache, so plain invocations
print the unknown indicator.

With --watch it keeps probing at the configured interval until
interrupted, printing a line whenever upstream commits are pending.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cache, _, err := newComponents()
			if err != nil {
				return err
			}

			if opts.Refresh || opts.Watch {
				cache.Refresh()
			}
			printSummary(cache.Summary(), opts.Plain)

			if !opts.Watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			interval := time.Duration(cfg.UpdateIntervalSeconds) * time.Second
			cache.Watch(ctx, interval, func(p status.Pending) {
				printSummary(cache.Summary(), opts.Plain)
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Probe the remote before printing")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Keep probing at the configured interval")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Print the bare count without styling")

	return cmd
}

func printSummary(s status.Summary, plain bool) {
	if plain {
		fmt.Println(s.Count)
		return
	}
	fmt.Println(s.Render())
}
