package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "draftwatch",
	Short: "Live fantasy-draft tracking client",
	Long: `Draftwatch keeps a consistent, continuously updated view of one live
fantasy draft: which player went at which slot, which players remain
available, and every team's accumulated roster.

It syncs from a one-time snapshot fetch, a push stream of pick and
recommendation events, and on-demand player history lookups, and exposes
the reconciled view over a local HTTP endpoint for whatever front-end
attaches.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}
