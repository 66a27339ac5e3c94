package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/srcup/srcup/internal/config"
	"github.com/srcup/srcup/internal/status"
	"github.com/srcup/srcup/internal/update"
)

// Exit codes
const (
	ExitOK            = 0
	ExitConfigError   = 2
	ExitRunError      = 3
	ExitInternalError = 10
)

// GlobalOptions holds options shared across all commands
type GlobalOptions struct {
	SourceDir string
	Branch    string
	BuildType string
	Verbose   bool
}

var globalOpts = &GlobalOptions{}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "srcup",
	Short: "Update and rebuild a local source checkout",
	Long: `srcup keeps a local source checkout current: it clones or fetches,
checks out the configured branch, pulls, builds, and installs, streaming
the pipeline output into an interactive modal surface.

It also maintains a cached pending-change count for status lines.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalOpts.SourceDir, "source-dir", "", "Path to the source checkout (or set SRCUP_SOURCE_DIR)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.Branch, "branch", "", "Branch to track (or set SRCUP_BRANCH)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.BuildType, "build-type", "", "Build type passed to the build stage (or set SRCUP_BUILD_TYPE)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.Verbose, "verbose", false, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newChangesCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newStatusCmd())
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitInternalError)
	}
}

// loadConfig merges file, .env, and environment configuration, then
// applies command-line flags (highest precedence). The result is the
// immutable value threaded through every component.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if globalOpts.SourceDir != "" {
		cfg.SourceDir = config.ExpandPath(globalOpts.SourceDir, "")
	}
	if globalOpts.Branch != "" {
		cfg.Branch = globalOpts.Branch
	}
	if globalOpts.BuildType != "" {
		cfg.BuildType = globalOpts.BuildType
	}
	if globalOpts.Verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newComponents builds the cache and workflow from the merged config.
func newComponents() (config.Config, *status.Cache, *update.Workflow, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, nil, err
	}
	cache := status.NewCache(status.GitProbe(cfg.SourceDir))
	return cfg, cache, update.New(cfg, cache), nil
}
