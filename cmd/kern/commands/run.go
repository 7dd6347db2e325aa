package commands

import (
	"github.com/spf13/cobra"
	"go.kern.sh/kern/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a script and reload it on change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			debounce, _ := cmd.Flags().GetDuration("debounce")
			pollInterval, _ := cmd.Flags().GetDuration("poll-interval")
			useNotify, _ := cmd.Flags().GetBool("notify")
			jsonLogs, _ := cmd.Flags().GetBool("json")

			return c.app.Run(cmd.Context(), args[0], app.RunOptions{
				Debounce:     debounce,
				PollInterval: pollInterval,
				Notify:       useNotify,
				JSON:         jsonLogs,
			})
		},
	}
	cmd.Flags().DurationP("debounce", "d", 0, "Quiet period after the last change before reloading")
	cmd.Flags().DurationP("poll-interval", "p", 0, "Polling cadence of the change watcher")
	cmd.Flags().Bool("notify", false, "Use OS file system notifications instead of polling")
	cmd.Flags().Bool("json", false, "Emit diagnostics as JSON")
	return cmd
}
