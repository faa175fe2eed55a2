package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/storymath/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start solving word problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp builds the gateway and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(cmd.Context(), app.Options{
		Gateway: e.gateway(),
		Logger:  e.logger,
	})
}
