// Clear command: wipe both stores.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var flagClearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, closeApp, err := openApp(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "clear:", err)
			os.Exit(exitSysError)
		}
		defer closeApp()

		if !flagClearYes {
			summary, err := a.Summarize(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, "clear:", err)
				os.Exit(exitSysError)
			}
			fmt.Printf("This deletes %d productivity samples, %d match factor samples, %d issues, and %d photos (%s).\n",
				summary.Productivity, summary.MatchFactor, summary.Issues,
				summary.Photos.Count, humanize.Bytes(uint64(summary.Photos.TotalBytes)))
			if !confirm("This cannot be undone. Continue?") {
				fmt.Println("Clear cancelled.")
				return nil
			}
		}

		if err := a.ClearAll(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "clear:", err)
			os.Exit(exitSysError)
		}
		fmt.Println("All data deleted.")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&flagClearYes, "yes", false, "skip the confirmation prompt")
}
