package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	projectPath string
	userPath    string
	cacheDBPath string
	noCache     bool
)

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	root := newRootCommand(version)
	return root.ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "santa",
		Short:   "santa - cross-platform package-manager orchestrator",
		Version: version,
		Long: `santa resolves a layered package list against whichever package
managers are available on the current machine, and drives installs either
as generated scripts (safe mode, the default) or direct subprocess runs.`,
	}

	root.PersistentFlags().StringVar(&projectPath, "project", "", "project-layer CCL file (default: $SANTA_CONFIG, then ./.santa/config.ccl)")
	root.PersistentFlags().StringVar(&userPath, "user", "", "user-layer CCL file (default: ~/.config/santa/config.ccl, if present)")
	root.PersistentFlags().StringVar(&cacheDBPath, "cache-db", "", "sqlite path for the installed-set cache (default: $SANTA_CACHE_DB, then ~/.santa/cache.db)")
	root.PersistentFlags().BoolVar(&noCache, "no-cache", false, "skip the sqlite cache store; installed sets are still cached in memory for this run")

	root.AddCommand(newStatusCommand())
	root.AddCommand(newInstallCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newWatchCommand())

	return root
}
