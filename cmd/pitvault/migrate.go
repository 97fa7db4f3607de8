// Migrate command: rewrite stored issues to the current record shape.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minetrics/pitvault/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade stored issue records to the current shape",
	Long: `Scan the issue collection and rewrite records saved by older
versions: inline base64 photos move into the photo store and singular
delay/productivity fields become arrays. Running it again is a no-op.
Every store open runs this automatically; the command exists to do it
explicitly and report what changed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		records, blobs, closeStores, err := openStores(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(exitSysError)
		}
		defer closeStores()

		a := app.New(records, blobs)
		summary, err := a.Load(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			return printJSON(summary)
		}
		fmt.Printf("Scanned %d issue records: %d migrated, %d failed\n",
			summary.Scanned, summary.Migrated, summary.Failed)
		warnSoftLimit(a)
		return nil
	},
}
