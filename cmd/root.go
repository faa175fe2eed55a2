package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "storymath",
	Short: "Math word problems in your terminal",
	Long:  "storymath - a terminal client for picture-based addition and subtraction word problems.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(authorCmd)
	rootCmd.AddCommand(versionCmd)
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/storymath/config.yaml)")
	flags.String("api-url", "", "Backend base URL (overrides STORYMATH_API_URL)")
	flags.String("db", "", "Path to the call journal database (overrides STORYMATH_DB)")
	flags.Bool("no-journal", false, "Do not record calls in the journal")
	flags.BoolP("verbose", "v", false, "Write debug logs")
}
