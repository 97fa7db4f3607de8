// Check command: list issues with no sample in their calendar hour.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "List issues not linked to any sample",
	Long: `List issues whose excavator and calendar hour match no stored
productivity or match factor sample. Orphaned issues are kept and
reported; this is advisory only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := openApp(cmd.Context())
		if err != nil {
			fmt.Fprintln(os.Stderr, "check:", err)
			os.Exit(exitSysError)
		}
		defer closeApp()

		orphans := a.OrphanedIssues()

		if flagJSON {
			return printJSON(orphans)
		}
		if len(orphans) == 0 {
			fmt.Println("All issues are linked to a sample.")
			return nil
		}
		fmt.Printf("%d orphaned issue(s):\n", len(orphans))
		for _, issue := range orphans {
			fmt.Printf("  %s  %s  %s\n", issue.ID, issue.ExcavatorID,
				issue.Timestamp.Format(time.RFC3339))
		}
		return nil
	},
}
